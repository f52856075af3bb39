package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidStage is returned when a stage name is not one of the known stages.
	ErrInvalidStage = errors.New("invalid stage")

	// ErrInvalidTransition is returned when a stage change would skip or revert
	// a stage, or leave a terminal stage.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrInvalidJobID is returned when a job identifier is zero, negative or
	// cannot be parsed.
	ErrInvalidJobID = errors.New("invalid job ID")
)
