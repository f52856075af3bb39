package ciutil

import "log/slog"

// GetTestDatabaseURL returns the database URL for integration tests, checking
// DATABASE_URL, RECIPE_TEST_DB_URL and RECIPE_DATABASE_URL in that order.
// It returns an empty string when none is set.
func GetTestDatabaseURL(logger *slog.Logger) string {
	dbURL := GetEnvWithFallbacks(
		[]string{EnvDatabaseURL, EnvRecipeTestDBURL, EnvRecipeDatabaseURL},
		"",
		logger,
	)
	if dbURL == "" && logger != nil {
		logger.Info("No database URL environment variables found")
	}
	return dbURL
}
