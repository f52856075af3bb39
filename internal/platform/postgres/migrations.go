package postgres

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	// MigrationsTable is the goose version table.
	MigrationsTable = "schema_migrations"

	migrationsDir = "migrations"
)

// Migrate runs a goose command (up, down, status, version, reset, redo)
// against the database behind pool using the embedded migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, command string, logger *slog.Logger, args ...string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(MigrationsTable)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	logger.Info("running migrations", "command", command, "args", args)
	if err := goose.RunContext(ctx, command, db, migrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, MapError(err))
	}
	return nil
}

// slogGooseLogger forwards goose output to slog. Fatalf deliberately does not
// exit; the error is returned to the caller.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...), "component", "migrations")
}

// Fatalf implements goose.Logger.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "migrations")
}
