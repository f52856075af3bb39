package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/recipe-api/internal/config"
)

// loadAppConfig loads the application configuration from environment
// variables, an optional .env file and either path or ./config.yaml.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"store_backend", cfg.Store.Backend)

	if cfg.Database.URL != "" {
		slog.Debug("Database configuration", "url_present", true)
	}

	return cfg, nil
}
