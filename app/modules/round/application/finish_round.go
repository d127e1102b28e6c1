package roundservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/attr"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// FinishRound moves a verified round to FINISHED. Confirmed appearances of
// still-active competitors are included in the session standings; those of
// scratched competitors are excluded. Every non-advancing competitor is
// finished. The OSS/SA documents and the scoring-staff notification are
// handed to the job queue after commit.
func (s *RoundService) FinishRound(ctx context.Context, roundID types.RoundID) (results.OperationResult[Transition, Failure], error) {
	unlock := s.locks.Lock(roundID.String())
	defer unlock()

	return withTelemetry(s, ctx, "FinishRound", roundID, func(ctx context.Context) (results.OperationResult[Transition, Failure], error) {
		var round *rounddb.Round
		var from rounddb.RoundStatus

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[Transition, Failure], error) {
			var err error
			round, err = s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}
			from = round.Status
			if from != rounddb.RoundStatusVerified || !from.CanTransition(rounddb.RoundStatusFinished) {
				return results.Fail[Transition, Failure](Failure{Reason: fmt.Sprintf("cannot finish round in status %s", from)}), nil
			}

			if err := s.competitors.CheckContestsResolved(ctx, db, round.SessionID, round.Num); err != nil {
				if errors.Is(err, ErrContestsUnresolved) {
					return results.Fail[Transition, Failure](Failure{Reason: err.Error()}), nil
				}
				return results.OperationResult[Transition, Failure]{}, err
			}

			if err := s.settleAppearances(ctx, db, round); err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}

			if err := s.transition(ctx, db, round, rounddb.RoundStatusFinished); err != nil {
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
		s.enqueueClosingJobs(ctx, round)
		return result, nil
	})
}

// settleAppearances includes or excludes each confirmed appearance and
// finishes every competitor that does not advance out of this round.
func (s *RoundService) settleAppearances(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	entrants, err := s.competitors.ListEntrants(ctx, db, round.SessionID)
	if err != nil {
		return err
	}
	scratched := make(map[types.CompetitorID]bool, len(entrants))
	active := make(map[types.CompetitorID]bool, len(entrants))
	for _, e := range entrants {
		scratched[e.CompetitorID] = e.Scratched
		active[e.CompetitorID] = e.Active
	}

	appearances, err := s.appearances.ListForRound(ctx, db, round.ID)
	if err != nil {
		return err
	}
	for _, a := range appearances {
		if a.Settled {
			switch {
			case scratched[a.CompetitorID]:
				if err := s.appearances.ExcludeForRound(ctx, db, a.ID); err != nil {
					return err
				}
			default:
				if err := s.appearances.IncludeForRound(ctx, db, a.ID); err != nil {
					return err
				}
			}
		}
		advancing := a.Draw != nil && *a.Draw > 0
		if !advancing && active[a.CompetitorID] {
			if err := s.competitors.FinishCompetitor(ctx, db, a.CompetitorID); err != nil {
				return err
			}
		}
	}
	return nil
}

// enqueueClosingJobs hands the standing documents and the staff notification
// to the queue. Runs after commit; failures are logged, the finish stands.
func (s *RoundService) enqueueClosingJobs(ctx context.Context, round *rounddb.Round) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueStandings(ctx, round.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to enqueue standings",
			attr.RoundID(round.ID),
			attr.Error(err),
		)
	}
	if len(s.recipients) == 0 {
		return
	}
	subject := fmt.Sprintf("Scores for %s round", round.Kind)
	body := fmt.Sprintf("The %s round has finished. The official scoring summary is attached.", round.Kind)
	if err := s.queue.EnqueueNotification(ctx, round.ID, s.recipients, subject, body); err != nil {
		s.logger.ErrorContext(ctx, "Failed to enqueue notification",
			attr.RoundID(round.ID),
			attr.Error(err),
		)
	}
}
