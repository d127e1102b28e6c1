package roundservice

import (
	"context"
	"fmt"
	"sort"

	"github.com/uptrace/bun"

	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// Practice panelists number upward from this base so score sheets keep them
// apart from officials.
const practiceNumBase = 50

// StartRound moves a built round to STARTED: it numbers the scoring panel,
// starts every entered competitor of the session, and builds every
// appearance so score sentinels exist before the first group takes the
// stage.
func (s *RoundService) StartRound(ctx context.Context, roundID types.RoundID) (results.OperationResult[Transition, Failure], error) {
	unlock := s.locks.Lock(roundID.String())
	defer unlock()

	return withTelemetry(s, ctx, "StartRound", roundID, func(ctx context.Context) (results.OperationResult[Transition, Failure], error) {
		var round *rounddb.Round
		var from rounddb.RoundStatus

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[Transition, Failure], error) {
			var err error
			round, err = s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}
			from = round.Status
			if !from.CanTransition(rounddb.RoundStatusStarted) {
				return results.Fail[Transition, Failure](Failure{Reason: fmt.Sprintf("cannot start round in status %s", from)}), nil
			}

			if err := s.numberPanel(ctx, db, roundID); err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}

			if err := s.competitors.StartSession(ctx, db, round.SessionID); err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}

			appearances, err := s.appearances.ListForRound(ctx, db, roundID)
			if err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}
			for _, a := range appearances {
				if err := s.appearances.BuildForRound(ctx, db, a.ID); err != nil {
					return results.OperationResult[Transition, Failure]{}, err
				}
			}

			if err := s.transition(ctx, db, round, rounddb.RoundStatusStarted); err != nil {
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

// numberPanel assigns sequential numbers to the round's scoring panelists:
// officials from 1, practices from 51, both ordered by category then name.
// CAs judge no category and carry no number.
func (s *RoundService) numberPanel(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	panelists, err := s.repo.ListPanelists(ctx, db, roundID)
	if err != nil {
		return err
	}

	var officials, practices []*rounddb.Panelist
	for _, p := range panelists {
		if !p.Category.Scoring() {
			continue
		}
		switch p.Kind {
		case rounddb.PanelistKindOfficial:
			officials = append(officials, p)
		case rounddb.PanelistKindPractice:
			practices = append(practices, p)
		}
	}
	sortPanel(officials)
	sortPanel(practices)

	for i, p := range officials {
		num := i + 1
		if err := s.repo.UpdatePanelistNum(ctx, db, p.ID, &num); err != nil {
			return fmt.Errorf("failed to number official panelist: %w", err)
		}
	}
	for i, p := range practices {
		num := practiceNumBase + i + 1
		if err := s.repo.UpdatePanelistNum(ctx, db, p.ID, &num); err != nil {
			return fmt.Errorf("failed to number practice panelist: %w", err)
		}
	}
	return nil
}

func sortPanel(panelists []*rounddb.Panelist) {
	sort.SliceStable(panelists, func(i, j int) bool {
		a, b := panelists[i], panelists[j]
		if a.Category.Weight() != b.Category.Weight() {
			return a.Category.Weight() < b.Category.Weight()
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.NickName != b.NickName {
			return a.NickName < b.NickName
		}
		return a.FirstName < b.FirstName
	})
}
