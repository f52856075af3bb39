package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/recipe-api/internal/api/shared"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	pinger Pinger
}

// NewHealthHandler creates a HealthHandler. pinger may be nil when there is
// no external dependency to check.
func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Job store unavailable", err)
			return
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
