package competitorservice

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// AppearanceAggregates is the slice of appearance data the competitor
// aggregator consumes. Nil pointers mean the appearance has not been
// confirmed yet and is skipped.
type AppearanceAggregates struct {
	AppearanceID types.AppearanceID
	RoundID      types.RoundID

	MusPoints *int
	PerPoints *int
	SngPoints *int
	TotPoints *int

	MusScore *float64
	PerScore *float64
	SngScore *float64
	TotScore *float64
}

// AppearanceSource exposes the appearance module's confirmed aggregates.
type AppearanceSource interface {
	// AggregatesByCompetitor returns aggregate snapshots for every
	// appearance of the competitor across the session.
	AggregatesByCompetitor(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) ([]AppearanceAggregates, error)
}
