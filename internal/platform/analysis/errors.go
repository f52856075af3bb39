package analysis

import "errors"

// Error definitions for the analysis package.
var (
	// ErrInvalidConfig is returned when the client cannot be built from its configuration.
	ErrInvalidConfig = errors.New("invalid analysis engine configuration")

	// ErrUnexpectedStatus is returned when the engine answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status from analysis engine")

	// ErrInvalidResponse is returned when the engine's response body cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response from analysis engine")
)
