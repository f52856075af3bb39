package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/job"
	"github.com/phrazzld/recipe-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"queue full", job.ErrQueueFull, http.StatusServiceUnavailable},
		{"stopped", job.ErrDispatcherStopped, http.StatusServiceUnavailable},
		{"not started", job.ErrDispatcherNotStarted, http.StatusServiceUnavailable},
		{"wrapped not found", store.NewStoreError("job", "get", "no rows", store.ErrNotFound), http.StatusNotFound},
		{"connectivity", fmt.Errorf("create: %w", store.ErrConnectivity), http.StatusServiceUnavailable},
		{"validation", fmt.Errorf("%w: algorithm is required", domain.ErrValidation), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"job not found", store.ErrJobNotFound, http.StatusNotFound},
		{"invalid id", domain.ErrInvalidJobID, http.StatusNotFound},
		{"unclassified", errors.New("boom"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Job not found", GetSafeErrorMessage(store.ErrJobNotFound))
	assert.Equal(t, "Service is starting up", GetSafeErrorMessage(job.ErrDispatcherNotStarted))
	assert.Equal(t, "Job store unavailable",
		GetSafeErrorMessage(fmt.Errorf("dial postgres://u:p@db/x: %w", store.ErrConnectivity)))
	assert.Equal(t, "Request could not be completed", GetSafeErrorMessage(errors.New("internal detail")))
}

func TestSanitizeValidationError(t *testing.T) {
	v := validator.New()
	err := v.Struct(EmbedRequest{Ingredients: []string{"egg"}})
	assert.Equal(t, "Invalid Algorithm: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
