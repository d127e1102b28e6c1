package appearanceservice

import "errors"

// Domain errors for the appearance service.
// These represent business outcomes that callers should treat as normal
// results (map to a failure payload) rather than retrying.
var (
	// ErrTransitionRejected indicates the requested lifecycle transition is
	// not permitted from the current status.
	ErrTransitionRejected = errors.New("appearance transition rejected")

	// ErrScoresIncomplete indicates confirmation was attempted while one or
	// more official scores are still unset.
	ErrScoresIncomplete = errors.New("official scores incomplete")

	// ErrInvalidPoints indicates a score value outside the 0..100 range.
	ErrInvalidPoints = errors.New("points out of range")

	// ErrScoreLocked indicates a score edit was attempted after the
	// appearance settled.
	ErrScoreLocked = errors.New("score is locked")
)
