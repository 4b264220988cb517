package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRating is returned when a rating is outside AGAIN..EASY.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidState is returned when a TrainingState violates its invariants.
	// It signals a caller or persistence bug and is never repaired silently.
	ErrInvalidState = errors.New("invalid training state")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
