package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/recipe-api/internal/api"
	apiMiddleware "github.com/phrazzld/recipe-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	jobHandler := api.NewJobHandler(app.dispatcher, app.jobStore)

	r.With(middleware.RequestSize(app.config.Server.MaxBodyBytes)).Post("/embed", jobHandler.Embed)
	r.Get("/status/{id}", jobHandler.GetStatus)
	r.Get("/jobs/{id}", jobHandler.GetJob)

	// A nil *pgxpool.Pool must not reach the handler as a non-nil Pinger.
	var pinger api.Pinger
	if app.pool != nil {
		pinger = app.pool
	}
	r.Method(http.MethodGet, "/health", api.NewHealthHandler(pinger))

	return r
}
