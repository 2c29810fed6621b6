package workflow

import "errors"

var (
	// ErrNotFound is returned when a request, item or user does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor is not authorized to act at the current stage
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState is returned when the request's stage or status does not allow the transition
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation is returned on malformed input, before any mutation
	ErrValidation = errors.New("validation failed")
)
