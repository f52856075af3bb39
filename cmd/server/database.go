package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phrazzld/recipe-api/internal/config"
	"github.com/phrazzld/recipe-api/internal/platform/postgres"
)

const connectTimeout = 5 * time.Second

// setupAppDatabase opens the connection pool when the postgres backend is
// selected. It returns a nil pool for the memory backend.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.Store.Backend != config.BackendPostgres {
		logger.Info("Using in-memory job store; jobs will not survive a restart")
		return nil, nil
	}
	return openPool(ctx, cfg, logger)
}

// openPool connects to cfg.Database regardless of the selected backend.
func openPool(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database url is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connection established",
		"max_conns", cfg.Database.MaxConns,
		"min_conns", cfg.Database.MinConns)
	return pool, nil
}
