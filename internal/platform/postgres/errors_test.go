package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/recipe-api/internal/platform/postgres"
	"github.com/phrazzld/recipe-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		SchemaName:     "public",
		TableName:      "jobs",
		ColumnName:     "algorithm",
		ConstraintName: "jobs_status_check",
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: pgx.ErrNoRows, target: store.ErrNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("query: %w", pgx.ErrNoRows), target: store.ErrNotFound},
		{name: "check violation", err: newPgError("23514"), target: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), target: store.ErrInvalidEntity},
		{name: "connection failure", err: newPgError("08006"), target: store.ErrConnectivity},
		{name: "too many connections", err: newPgError("53300"), target: store.ErrConnectivity},
		{name: "admin shutdown", err: newPgError("57P01"), target: store.ErrConnectivity},
		{name: "network timeout", err: timeoutError{}, target: store.ErrConnectivity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mapped := postgres.MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.target)
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.MapError(nil))

	plain := errors.New("something else")
	assert.Same(t, plain, postgres.MapError(plain))

	syntax := newPgError("42601")
	assert.Equal(t, error(syntax), postgres.MapError(syntax))
	assert.False(t, store.IsConnectivityError(postgres.MapError(syntax)))
}

func TestIsConnectivityError(t *testing.T) {
	t.Parallel()

	assert.False(t, postgres.IsConnectivityError(nil))
	assert.False(t, postgres.IsConnectivityError(errors.New("boom")))
	assert.False(t, postgres.IsConnectivityError(context.Canceled))
	assert.False(t, postgres.IsConnectivityError(newPgError("23514")))
	assert.True(t, postgres.IsConnectivityError(newPgError("08001")))
	assert.True(t, postgres.IsConnectivityError(fmt.Errorf("dial: %w", timeoutError{})))
}

func TestIsCheckConstraintViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsCheckConstraintViolation(newPgError("23514")))
	assert.True(t, postgres.IsCheckConstraintViolation(fmt.Errorf("wrapped: %w", newPgError("23514"))))
	assert.False(t, postgres.IsCheckConstraintViolation(newPgError("23502")))
	assert.False(t, postgres.IsCheckConstraintViolation(errors.New("other")))
}
