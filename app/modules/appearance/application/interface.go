package appearanceservice

import (
	"context"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// Transition is the success payload for lifecycle operations.
type Transition struct {
	AppearanceID types.AppearanceID
	From         appearancedb.AppearanceStatus
	To           appearancedb.AppearanceStatus
}

// ConfirmOutcome is the success payload for ConfirmAppearance. Variance true
// means confirmation halted: a variance report was queued and the appearance
// stayed in its prior status.
type ConfirmOutcome struct {
	AppearanceID types.AppearanceID
	Variance     bool
	TotPoints    *int
	TotScore     *float64
}

// ScoreUpdated is the success payload for UpdateScore.
type ScoreUpdated struct {
	ScoreID types.ScoreID
	Points  int
}

// Failure is the domain failure payload for appearance operations.
type Failure struct {
	Reason string
}

// Service defines the interface for the AppearanceService.
type Service interface {
	// StartAppearance marks the competitor on stage and stamps the actual
	// start time.
	StartAppearance(ctx context.Context, appearanceID types.AppearanceID) (results.OperationResult[Transition, Failure], error)

	// FinishAppearance marks the competitor off stage and stamps the actual
	// finish time.
	FinishAppearance(ctx context.Context, appearanceID types.AppearanceID) (results.OperationResult[Transition, Failure], error)

	// ConfirmAppearance aggregates song and appearance totals from official
	// scores. When any song trips the variance check, confirmation halts, a
	// variance report job is queued, and no aggregates are written.
	// Confirm is re-entrant so score corrections can be folded in.
	ConfirmAppearance(ctx context.Context, appearanceID types.AppearanceID) (results.OperationResult[ConfirmOutcome, Failure], error)

	// IncludeAppearance settles a confirmed appearance into the published
	// standings.
	IncludeAppearance(ctx context.Context, appearanceID types.AppearanceID) (results.OperationResult[Transition, Failure], error)

	// ExcludeAppearance settles a confirmed appearance out of the published
	// standings.
	ExcludeAppearance(ctx context.Context, appearanceID types.AppearanceID) (results.OperationResult[Transition, Failure], error)

	// UpdateScore sets one panelist's raw points for a song. Rejected once
	// the appearance has settled past CONFIRMED.
	UpdateScore(ctx context.Context, appearanceID types.AppearanceID, scoreID types.ScoreID, points int) (results.OperationResult[ScoreUpdated, Failure], error)
}
