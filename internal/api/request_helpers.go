package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/recipe-api/internal/domain"
)

// getPathJobID extracts a job ID from the URL path parameters.
func getPathJobID(r *http.Request, paramName string) (domain.JobID, error) {
	return domain.ParseJobID(chi.URLParam(r, paramName))
}
