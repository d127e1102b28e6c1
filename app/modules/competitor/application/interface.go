package competitorservice

import (
	"context"

	competitordb "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// StatusChanged is the success payload for status operations.
type StatusChanged struct {
	CompetitorID types.CompetitorID
	From         competitordb.CompetitorStatus
	To           competitordb.CompetitorStatus
}

// Recalculated is the success payload for RecalculateCompetitor.
type Recalculated struct {
	CompetitorID types.CompetitorID
}

// ContestResolved is the success payload for ResolveContest.
type ContestResolved struct {
	ContestID types.ContestID
	GroupName string
}

// Failure is the domain failure payload for competitor operations.
type Failure struct {
	Reason string
}

// Service defines the interface for the CompetitorService.
type Service interface {
	// ScratchCompetitor withdraws a competitor from the session.
	ScratchCompetitor(ctx context.Context, competitorID types.CompetitorID) (results.OperationResult[StatusChanged, Failure], error)

	// RecalculateCompetitor refreshes a competitor's running totals from its
	// confirmed appearances.
	RecalculateCompetitor(ctx context.Context, competitorID types.CompetitorID) (results.OperationResult[Recalculated, Failure], error)

	// ResolveContest records the winning group name on a manually resolved
	// contest.
	ResolveContest(ctx context.Context, contestID types.ContestID, groupName string) (results.OperationResult[ContestResolved, Failure], error)
}
