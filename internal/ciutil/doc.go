// Package ciutil detects the execution environment (CI or local) and
// resolves the environment variables that tests use to find a database.
package ciutil
