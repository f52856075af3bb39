// Package postgres provides the PostgreSQL implementation of the job store
// defined in the internal/store package. It owns the connection pool setup,
// the embedded schema migrations, and the mapping between database errors and
// store errors.
package postgres
