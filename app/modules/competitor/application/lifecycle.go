package competitorservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	competitordb "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// competitorTransitions is the closed status machine. Scratch is permitted
// from any live status.
var competitorTransitions = map[competitordb.CompetitorStatus][]competitordb.CompetitorStatus{
	competitordb.CompetitorStatusNew:     {competitordb.CompetitorStatusStarted, competitordb.CompetitorStatusScratched},
	competitordb.CompetitorStatusStarted: {competitordb.CompetitorStatusFinished, competitordb.CompetitorStatusScratched},
}

func canTransition(from, to competitordb.CompetitorStatus) bool {
	for _, t := range competitorTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// StartSession activates every fresh competitor in the session. Runs inside
// the caller's transaction as part of the first round's start.
func (s *CompetitorService) StartSession(ctx context.Context, db bun.IDB, sessionID types.SessionID) error {
	competitors, err := s.repo.ListBySession(ctx, db, sessionID)
	if err != nil {
		return err
	}
	for i := range competitors {
		if competitors[i].Status != competitordb.CompetitorStatusNew {
			continue
		}
		if err := s.setStatus(ctx, db, &competitors[i], competitordb.CompetitorStatusStarted); err != nil {
			return err
		}
	}
	return nil
}

// FinishCompetitor settles a competitor who does not advance. Runs inside
// the caller's transaction as part of round finish.
func (s *CompetitorService) FinishCompetitor(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) error {
	competitor, err := s.repo.GetCompetitor(ctx, db, competitorID)
	if err != nil {
		return err
	}
	if !canTransition(competitor.Status, competitordb.CompetitorStatusFinished) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionRejected, competitor.Status, competitordb.CompetitorStatusFinished)
	}
	return s.setStatus(ctx, db, competitor, competitordb.CompetitorStatusFinished)
}

// ScratchCompetitor withdraws a competitor from the session.
func (s *CompetitorService) ScratchCompetitor(ctx context.Context, competitorID types.CompetitorID) (results.OperationResult[StatusChanged, Failure], error) {
	return withTelemetry(s, ctx, "ScratchCompetitor", competitorID.String(), func(ctx context.Context) (results.OperationResult[StatusChanged, Failure], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[StatusChanged, Failure], error) {
			competitor, err := s.repo.GetCompetitor(ctx, db, competitorID)
			if err != nil {
				return results.OperationResult[StatusChanged, Failure]{}, err
			}
			from := competitor.Status
			if !canTransition(from, competitordb.CompetitorStatusScratched) {
				return results.Fail[StatusChanged, Failure](Failure{
					Reason: fmt.Sprintf("%s: %s -> %s", ErrTransitionRejected, from, competitordb.CompetitorStatusScratched),
				}), nil
			}
			if err := s.setStatus(ctx, db, competitor, competitordb.CompetitorStatusScratched); err != nil {
				return results.OperationResult[StatusChanged, Failure]{}, err
			}
			return results.Ok[StatusChanged, Failure](StatusChanged{
				CompetitorID: competitorID,
				From:         from,
				To:           competitordb.CompetitorStatusScratched,
			}), nil
		})
	})
}

// RecalculateCompetitor is the public wrapper around the transactional
// Recalculate helper.
func (s *CompetitorService) RecalculateCompetitor(ctx context.Context, competitorID types.CompetitorID) (results.OperationResult[Recalculated, Failure], error) {
	return withTelemetry(s, ctx, "RecalculateCompetitor", competitorID.String(), func(ctx context.Context) (results.OperationResult[Recalculated, Failure], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[Recalculated, Failure], error) {
			if err := s.Recalculate(ctx, db, competitorID); err != nil {
				if errors.Is(err, competitordb.ErrNotFound) {
					return results.Fail[Recalculated, Failure](Failure{Reason: err.Error()}), nil
				}
				return results.OperationResult[Recalculated, Failure]{}, err
			}
			return results.Ok[Recalculated, Failure](Recalculated{CompetitorID: competitorID}), nil
		})
	})
}
