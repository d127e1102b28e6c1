package appearanceservice

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// Panelist is the slice of panel data this module needs to seed score
// sentinels: identity, kind and judging category.
type Panelist struct {
	ID       types.PanelistID
	Kind     string
	Category string
}

// PanelProvider exposes the round module's scoring panel.
type PanelProvider interface {
	// ScoringPanel returns the round's point-carrying panelists ordered by
	// panel number.
	ScoringPanel(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]Panelist, error)
	// OfficialPanelSize returns the number of official panelists per scoring
	// category.
	OfficialPanelSize(ctx context.Context, db bun.IDB, roundID types.RoundID) (int, error)
}

// CompetitorRecalculator exposes the competitor module's aggregate refresh.
// Recalculate runs inside the caller's transaction.
type CompetitorRecalculator interface {
	Recalculate(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) error
}

// VarianceReportEnqueuer queues rendering of a variance report.
type VarianceReportEnqueuer interface {
	EnqueueVarianceReport(ctx context.Context, roundID types.RoundID, appearanceID types.AppearanceID) error
}
