package roundservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// BuildRound moves a fresh round to BUILT: it copies the convention's active
// assignments onto the round as panelists, creates one appearance per
// competitor in the field, reserves a grid slot per carried draw, and creates
// one outcome per numbered contest. The field is the prior round's advancers,
// or every entered competitor for the first round of the session.
func (s *RoundService) BuildRound(ctx context.Context, roundID types.RoundID) (results.OperationResult[Built, Failure], error) {
	unlock := s.locks.Lock(roundID.String())
	defer unlock()

	return withTelemetry(s, ctx, "BuildRound", roundID, func(ctx context.Context) (results.OperationResult[Built, Failure], error) {
		var round *rounddb.Round
		var from rounddb.RoundStatus

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[Built, Failure], error) {
			var err error
			round, err = s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				return results.OperationResult[Built, Failure]{}, err
			}
			from = round.Status
			if !from.CanTransition(rounddb.RoundStatusBuilt) {
				return results.Fail[Built, Failure](Failure{Reason: fmt.Sprintf("cannot build round in status %s", from)}), nil
			}

			session, err := s.competitors.SessionOf(ctx, db, round.SessionID)
			if err != nil {
				return results.OperationResult[Built, Failure]{}, err
			}

			panelists, err := s.assemblePanel(ctx, db, round, session.ConventionID)
			if err != nil {
				return results.OperationResult[Built, Failure]{}, err
			}

			appearances, err := s.assembleField(ctx, db, round)
			if err != nil {
				return results.OperationResult[Built, Failure]{}, err
			}

			outcomes, err := s.seedOutcomes(ctx, db, round)
			if err != nil {
				return results.OperationResult[Built, Failure]{}, err
			}

			if err := s.transition(ctx, db, round, rounddb.RoundStatusBuilt); err != nil {
				return results.OperationResult[Built, Failure]{}, err
			}
			if err := s.repo.UpdateRound(ctx, db, round); err != nil {
				return results.OperationResult[Built, Failure]{}, err
			}

			return results.Ok[Built, Failure](Built{
				RoundID:     roundID,
				Panelists:   panelists,
				Appearances: appearances,
				Outcomes:    outcomes,
			}), nil
		})
		if err != nil || result.IsFailure() {
			return result, err
		}

		s.publishStateChanged(ctx, round, from)
		return result, nil
	})
}

// assemblePanel copies the convention's active assignments onto the round.
// Numbering happens at round start.
func (s *RoundService) assemblePanel(ctx context.Context, db bun.IDB, round *rounddb.Round, conventionID types.ConventionID) (int, error) {
	assignments, err := s.repo.ListAssignmentsForPanel(ctx, db, conventionID)
	if err != nil {
		return 0, err
	}
	for _, a := range assignments {
		panelist := &rounddb.Panelist{
			ID:        types.NewPanelistID(),
			RoundID:   round.ID,
			Kind:      a.Kind,
			Category:  a.Category,
			LastName:  a.LastName,
			NickName:  a.NickName,
			FirstName: a.FirstName,
			Email:     a.Email,
		}
		if err := s.repo.CreatePanelist(ctx, db, panelist); err != nil {
			return 0, fmt.Errorf("failed to create panelist: %w", err)
		}
	}
	return len(assignments), nil
}

// assembleField creates the round's appearances. Later rounds seed from the
// prior round's advancers carrying their draw as the stage number; the first
// round seeds every participating competitor with its entry draw.
func (s *RoundService) assembleField(ctx context.Context, db bun.IDB, round *rounddb.Round) (int, error) {
	prior, err := s.repo.GetPriorRound(ctx, db, round)
	switch {
	case err == nil:
		return s.fieldFromPrior(ctx, db, round, prior)
	case errors.Is(err, rounddb.ErrNotFound):
		return s.fieldFromEntries(ctx, db, round)
	default:
		return 0, err
	}
}

func (s *RoundService) fieldFromPrior(ctx context.Context, db bun.IDB, round, prior *rounddb.Round) (int, error) {
	priorApps, err := s.appearances.ListForRound(ctx, db, prior.ID)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, pa := range priorApps {
		if pa.Draw == nil || *pa.Draw <= 0 {
			continue
		}
		num := *pa.Draw
		id, err := s.appearances.CreateForRound(ctx, db, round.ID, pa.CompetitorID, &num)
		if err != nil {
			return 0, err
		}
		if err := s.reserveGridSlot(ctx, db, round.ID, num, id); err != nil {
			return 0, err
		}
		created++
	}
	return created, nil
}

func (s *RoundService) fieldFromEntries(ctx context.Context, db bun.IDB, round *rounddb.Round) (int, error) {
	entrants, err := s.competitors.ListEntrants(ctx, db, round.SessionID)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, e := range entrants {
		if !e.Active {
			continue
		}
		id, err := s.appearances.CreateForRound(ctx, db, round.ID, e.CompetitorID, e.EntryDraw)
		if err != nil {
			return 0, err
		}
		if e.EntryDraw != nil {
			if err := s.reserveGridSlot(ctx, db, round.ID, *e.EntryDraw, id); err != nil {
				return 0, err
			}
		}
		created++
	}
	return created, nil
}

func (s *RoundService) reserveGridSlot(ctx context.Context, db bun.IDB, roundID types.RoundID, num int, appearanceID types.AppearanceID) error {
	return s.repo.UpsertGridSlot(ctx, db, &rounddb.Grid{
		RoundID:      roundID,
		Num:          num,
		AppearanceID: &appearanceID,
	})
}

// seedOutcomes creates one unresolved outcome per numbered contest of the
// session.
func (s *RoundService) seedOutcomes(ctx context.Context, db bun.IDB, round *rounddb.Round) (int, error) {
	contests, err := s.competitors.ListNumberedContests(ctx, db, round.SessionID)
	if err != nil {
		return 0, err
	}
	for _, c := range contests {
		outcome := &rounddb.Outcome{
			ID:        types.NewOutcomeID(),
			RoundID:   round.ID,
			ContestID: c.ID,
			Num:       c.Num,
		}
		if err := s.repo.CreateOutcome(ctx, db, outcome); err != nil {
			return 0, fmt.Errorf("failed to create outcome: %w", err)
		}
	}
	return len(contests), nil
}
