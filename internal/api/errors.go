package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/job"
	"github.com/phrazzld/recipe-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Errors
// that fit no category are reported as not found.
func MapErrorToStatusCode(err error) int {
	switch {
	// Temporarily unable to serve
	case errors.Is(err, job.ErrQueueFull),
		errors.Is(err, job.ErrDispatcherStopped),
		errors.Is(err, job.ErrDispatcherNotStarted),
		store.IsConnectivityError(err):
		return http.StatusServiceUnavailable

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Not found errors
	case store.IsNotFoundError(err),
		errors.Is(err, domain.ErrInvalidJobID):
		return http.StatusNotFound

	default:
		return http.StatusNotFound
	}
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, job.ErrQueueFull):
		return "Too many jobs in progress, try again later"

	case errors.Is(err, job.ErrDispatcherStopped):
		return "Service is shutting down"

	case errors.Is(err, job.ErrDispatcherNotStarted):
		return "Service is starting up"

	case store.IsConnectivityError(err):
		return "Job store unavailable"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid job request"

	case store.IsNotFoundError(err),
		errors.Is(err, domain.ErrInvalidJobID):
		return "Job not found"

	default:
		return "Request could not be completed"
	}
}
