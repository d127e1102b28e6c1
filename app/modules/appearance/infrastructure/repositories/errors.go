package appearancedb

import "errors"

// Sentinel errors for the repository layer. These indicate database state;
// the service layer decides whether they are domain failures.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("appearance not found")

	// ErrSongNotFound indicates the requested song does not exist.
	ErrSongNotFound = errors.New("song not found")

	// ErrScoreNotFound indicates the requested score does not exist.
	ErrScoreNotFound = errors.New("score not found")
)
