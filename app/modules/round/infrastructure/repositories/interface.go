package rounddb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// Repository defines the contract for round persistence.
// All methods take a bun.IDB so they participate in an ambient transaction
// when the caller supplies one.
//
// Error semantics:
//   - ErrNotFound: round does not exist (GetRound, UpdateRound)
//   - ErrOutcomeNotFound: outcome does not exist (UpdateOutcomeName)
//   - ErrValidation: write violated an entity rule; nothing was applied
//   - Other errors: infrastructure failures (DB connection, query errors)
type Repository interface {
	CreateRound(ctx context.Context, db bun.IDB, round *Round) error
	GetRound(ctx context.Context, db bun.IDB, roundID types.RoundID) (*Round, error)
	UpdateRound(ctx context.Context, db bun.IDB, round *Round) error
	// GetPriorRound returns the round the given round draws its field from:
	// the round in the same session with the next-higher kind number. It
	// returns ErrNotFound when the round is the first of its session.
	GetPriorRound(ctx context.Context, db bun.IDB, round *Round) (*Round, error)
	ListRoundsBySession(ctx context.Context, db bun.IDB, sessionID types.SessionID) ([]*Round, error)

	// ListAssignmentsForPanel returns the convention's active official and
	// practice assignments ordered for panel numbering: kind, then category,
	// then last/nick/first name.
	ListAssignmentsForPanel(ctx context.Context, db bun.IDB, conventionID types.ConventionID) ([]*Assignment, error)
	CreateAssignment(ctx context.Context, db bun.IDB, assignment *Assignment) error

	CreatePanelist(ctx context.Context, db bun.IDB, panelist *Panelist) error
	ListPanelists(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*Panelist, error)
	// ListScoringPanelists returns the round's panelists whose category
	// produces scores, ordered by num.
	ListScoringPanelists(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*Panelist, error)
	UpdatePanelistNum(ctx context.Context, db bun.IDB, panelistID types.PanelistID, num *int) error
	DeletePanelistsByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error

	CreateOutcome(ctx context.Context, db bun.IDB, outcome *Outcome) error
	ListOutcomes(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]*Outcome, error)
	UpdateOutcomeName(ctx context.Context, db bun.IDB, outcomeID types.OutcomeID, name *string) error
	DeleteOutcomesByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error

	UpsertGridSlot(ctx context.Context, db bun.IDB, grid *Grid) error
	DetachGridByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error
}
