package roundservice

import "errors"

var (
	// ErrTransitionRejected reports a lifecycle transition the current round
	// status does not permit.
	ErrTransitionRejected = errors.New("transition rejected")
	// ErrAppearancesUnsettled blocks verification while appearances remain
	// unconfirmed.
	ErrAppearancesUnsettled = errors.New("appearances unsettled")
	// ErrContestsUnresolved blocks finish while a manual-level contest at
	// this round lacks its resolution.
	ErrContestsUnresolved = errors.New("contests unresolved")
)
