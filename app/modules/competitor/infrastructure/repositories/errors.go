package competitordb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested competitor does not exist.
	ErrNotFound = errors.New("competitor not found")

	// ErrSessionNotFound indicates the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrContestNotFound indicates the requested contest does not exist.
	ErrContestNotFound = errors.New("contest not found")
)
