package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phrazzld/recipe-api/internal/config"
	"github.com/phrazzld/recipe-api/internal/events"
	"github.com/phrazzld/recipe-api/internal/job"
	"github.com/phrazzld/recipe-api/internal/platform/analysis"
	"github.com/phrazzld/recipe-api/internal/platform/memory"
	"github.com/phrazzld/recipe-api/internal/platform/postgres"
	"github.com/phrazzld/recipe-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// pool is nil when the memory backend is selected.
	pool *pgxpool.Pool

	jobStore store.JobStore
	engine   job.AnalysisEngine

	eventEmitter *events.InMemoryEventEmitter
	dispatcher   *job.Dispatcher
}

// newApplication creates a new application instance with all dependencies
// initialized and the dispatcher running.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	pool *pgxpool.Pool,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		pool:   pool,
	}

	var err error
	app.jobStore, err = newJobStore(cfg, pool)
	if err != nil {
		return nil, err
	}

	app.engine, err = analysis.NewClient(cfg.Analysis, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analysis client: %w", err)
	}
	logger.Info("Analysis engine client initialized", "base_url", cfg.Analysis.BaseURL)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLoggingHandler(logger))

	app.dispatcher, err = setupDispatcher(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup job dispatcher: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

func newJobStore(cfg *config.Config, pool *pgxpool.Pool) (store.JobStore, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		if pool == nil {
			return nil, fmt.Errorf("the %s backend requires a database pool", config.BackendPostgres)
		}
		return postgres.NewPostgresJobStore(pool), nil
	case config.BackendMemory:
		return memory.NewJobStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// setupDispatcher creates and starts the background job dispatcher.
func setupDispatcher(ctx context.Context, app *application) (*job.Dispatcher, error) {
	dispatcher := job.NewDispatcher(
		app.jobStore,
		app.engine,
		job.ConfigFrom(app.config.Dispatcher),
		app.logger,
		job.WithEventEmitter(app.eventEmitter),
	)

	if err := dispatcher.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start job dispatcher: %w", err)
	}

	return dispatcher, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup drains the dispatcher and closes the database pool. ctx carries
// the shutdown deadline; once it expires, running jobs are cancelled.
func (app *application) cleanup(ctx context.Context) {
	if app.dispatcher != nil {
		if err := app.dispatcher.Stop(ctx); err != nil {
			app.logger.Error("Job dispatcher did not drain before shutdown", "error", err)
		}
	}

	if app.pool != nil {
		app.pool.Close()
	}

	app.logger.Info("Application shutdown completed")
}
