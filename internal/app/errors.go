package app

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrGeneration marks a single-shot operation that failed at the
	// generator boundary; the cause is wrapped.
	ErrGeneration = errors.New("generation failed")

	// ErrSessionNotFound means the prompt session expired or never
	// existed.
	ErrSessionNotFound = errors.New("session not found")
)
