package roundservice

import (
	"context"

	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// Transition is the success payload for a lifecycle move.
type Transition struct {
	RoundID types.RoundID
	From    string
	To      string
}

// Built reports what round build assembled.
type Built struct {
	RoundID     types.RoundID
	Panelists   int
	Appearances int
	Outcomes    int
}

// Verified reports the advancement decision attached to verification.
type Verified struct {
	RoundID   types.RoundID
	Advancers int
	// Alternate is set when a non-advancing competitor received the
	// move-to-finals sentinel.
	Alternate *types.CompetitorID
}

// Failure is the domain failure payload for round operations.
type Failure struct {
	Reason string
}

// Service is the round state machine surface.
type Service interface {
	BuildRound(ctx context.Context, roundID types.RoundID) (results.OperationResult[Built, Failure], error)
	StartRound(ctx context.Context, roundID types.RoundID) (results.OperationResult[Transition, Failure], error)
	VerifyRound(ctx context.Context, roundID types.RoundID) (results.OperationResult[Verified, Failure], error)
	FinishRound(ctx context.Context, roundID types.RoundID) (results.OperationResult[Transition, Failure], error)
	ResetRound(ctx context.Context, roundID types.RoundID) (results.OperationResult[Transition, Failure], error)
}
