package roundservice

import (
	"context"

	"github.com/uptrace/bun"

	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// ResetRound returns a round of any status to NEW in one transaction: grid
// slots are detached, appearances (with their songs and scores), panelists
// and outcomes are deleted, and every derived competitor aggregate in the
// session is nulled. Document references are cleared with the rest of the
// derived state.
func (s *RoundService) ResetRound(ctx context.Context, roundID types.RoundID) (results.OperationResult[Transition, Failure], error) {
	unlock := s.locks.Lock(roundID.String())
	defer unlock()

	return withTelemetry(s, ctx, "ResetRound", roundID, func(ctx context.Context) (results.OperationResult[Transition, Failure], error) {
		var round *rounddb.Round
		var from rounddb.RoundStatus

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[Transition, Failure], error) {
			var err error
			round, err = s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}
			from = round.Status

			if err := s.repo.DetachGridByRound(ctx, db, roundID); err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}
			if err := s.appearances.DeleteForRound(ctx, db, roundID); err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}
			if err := s.repo.DeletePanelistsByRound(ctx, db, roundID); err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}
			if err := s.repo.DeleteOutcomesByRound(ctx, db, roundID); err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}
			if err := s.competitors.NullAggregates(ctx, db, round.SessionID); err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}

			round.Status = rounddb.RoundStatusNew
			round.OSSRef = nil
			round.SARef = nil
			if err := s.recordTransition(ctx, db, round, from); err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}
			if err := s.repo.UpdateRound(ctx, db, round); err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}

			return results.Ok[Transition, Failure](Transition{
				RoundID: roundID,
				From:    string(from),
				To:      string(round.Status),
			}), nil
		})
		if err != nil || result.IsFailure() {
			return result, err
		}

		s.publishStateChanged(ctx, round, from)
		return result, nil
	})
}
