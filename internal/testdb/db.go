package testdb

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phrazzld/recipe-api/internal/ciutil"
	"github.com/phrazzld/recipe-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 10 * time.Second

var (
	migrateOnce sync.Once
	migrateErr  error
)

// IsIntegrationTestEnvironment returns true if a test database URL is configured.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// GetTestDatabaseURL returns the database URL for tests.
// See ciutil.GetTestDatabaseURL for the variables consulted.
func GetTestDatabaseURL() string {
	return ciutil.GetTestDatabaseURL(nil)
}

// GetTestPool returns a migrated connection pool, skipping the test when no
// database is configured. The pool is closed when the test finishes.
func GetTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		if ciutil.IsCI() {
			t.Log("warning: CI run has no test database configured")
		}
		t.Skip("DATABASE_URL or RECIPE_TEST_DB_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err, "Failed to create connection pool")
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(ctx), "Database ping failed")

	migrateOnce.Do(func() {
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		migrateErr = postgres.Migrate(ctx, pool, "up", quiet)
	})
	require.NoError(t, migrateErr, "Failed to run migrations")

	return pool
}

// WithTx runs fn inside a transaction that is rolled back afterwards, so
// tests can write freely without affecting each other.
func WithTx(t *testing.T, pool *pgxpool.Pool, fn func(t *testing.T, tx pgx.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback(context.Background())
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
