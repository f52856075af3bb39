package postgres

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/recipe-api/internal/store"
)

// PostgreSQL error codes
const (
	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"

	// tooManyConnectionsCode is raised when the server refuses a new connection
	tooManyConnectionsCode = "53300"

	// adminShutdownCode is raised when the server terminates the session
	adminShutdownCode = "57P01"

	// connectionExceptionClass prefixes every class 08 connection exception
	connectionExceptionClass = "08"
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context and provide better debugging information.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if IsConnectivityError(err) {
		return fmt.Errorf("%w: %v", store.ErrConnectivity, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if IsCheckConstraintViolation(err) {
			return fmt.Errorf(
				"%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		}
		if pgErr.Code == notNullViolationCode {
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ColumnName,
				err,
			)
		}
	}

	// Return the original error for errors that don't have specific mappings
	return err
}

// IsConnectivityError reports whether err means the database could not be
// reached or dropped the connection, as opposed to rejecting a statement.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, connectionExceptionClass) ||
			pgErr.Code == tooManyConnectionsCode ||
			pgErr.Code == adminShutdownCode
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return pgconn.Timeout(err)
}

// IsCheckConstraintViolation checks if the given error is a PostgreSQL check constraint violation.
func IsCheckConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolationCode
}
