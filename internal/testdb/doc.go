// Package testdb provides utilities for database integration tests: locating
// the test database, applying the schema once per test binary, and running
// test bodies inside a transaction that is always rolled back.
//
// Tests using this package are skipped unless DATABASE_URL or
// RECIPE_TEST_DB_URL is set.
package testdb
