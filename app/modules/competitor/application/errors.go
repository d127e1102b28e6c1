package competitorservice

import "errors"

// Domain errors for the competitor service.
var (
	// ErrTransitionRejected indicates the requested status change is not
	// permitted from the current status.
	ErrTransitionRejected = errors.New("competitor transition rejected")

	// ErrContestsUnresolved indicates manual contests awarded at the round
	// still lack a per-group resolution.
	ErrContestsUnresolved = errors.New("manual contests unresolved")

	// ErrNotManualContest indicates a resolution was entered for a contest
	// whose name resolves automatically.
	ErrNotManualContest = errors.New("contest is not manually resolved")
)
