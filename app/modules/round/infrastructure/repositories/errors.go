package rounddb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested round does not exist.
	ErrNotFound = errors.New("round not found")

	// ErrOutcomeNotFound indicates the requested outcome does not exist.
	ErrOutcomeNotFound = errors.New("outcome not found")

	// ErrValidation indicates a write violated an entity rule; nothing was
	// applied.
	ErrValidation = errors.New("validation failed")
)
