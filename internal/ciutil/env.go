package ciutil

import (
	"log/slog"
	"net/url"
	"os"
	"strings"
)

// Environment variable names shared by tests and tooling.
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"

	EnvDatabaseURL       = "DATABASE_URL"
	EnvRecipeTestDBURL   = "RECIPE_TEST_DB_URL"
	EnvRecipeDatabaseURL = "RECIPE_DATABASE_URL"
)

// IsCI returns true if any of the common CI provider variables is set.
func IsCI() bool {
	return os.Getenv(EnvCI) != "" ||
		os.Getenv(EnvGitHubActions) != "" ||
		os.Getenv(EnvGitLabCI) != "" ||
		os.Getenv(EnvJenkinsURL) != "" ||
		os.Getenv(EnvCircleCI) != ""
}

// GetEnvWithFallbacks returns the value of the first non-empty variable in
// envVars, or defaultValue. Using anything but the first name is logged as
// a warning when logger is non-nil.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, envVar := range envVars {
		if val := os.Getenv(envVar); val != "" {
			if i > 0 && logger != nil {
				logger.Warn("Using legacy environment variable",
					"used_var", envVar,
					"preferred_var", envVars[0],
					"value", MaskSensitiveValue(val))
			}
			return val
		}
	}
	return defaultValue
}

// MaskSensitiveValue hides the password of a connection URL and the middle
// of anything that looks like a key or token, so the value can be logged.
func MaskSensitiveValue(value string) string {
	if strings.Contains(value, "://") {
		if u, err := url.Parse(value); err == nil && u.User != nil {
			if _, hasPassword := u.User.Password(); hasPassword {
				return u.Redacted()
			}
			return value
		}
	}

	lower := strings.ToLower(value)
	if len(value) > 8 && (strings.Contains(lower, "key") ||
		strings.Contains(lower, "token") ||
		strings.Contains(lower, "secret")) {
		return value[:4] + "****" + value[len(value)-4:]
	}

	return value
}
