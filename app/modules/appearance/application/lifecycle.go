package appearanceservice

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// StartAppearance marks the competitor on stage and stamps the actual start
// time.
func (s *AppearanceService) StartAppearance(ctx context.Context, appearanceID types.AppearanceID) (results.OperationResult[Transition, Failure], error) {
	return s.lifecycleTransition(ctx, "StartAppearance", appearanceID, appearancedb.AppearanceStatusStarted, func(a *appearancedb.Appearance) {
		now := time.Now().UTC()
		a.ActualStart = &now
	})
}

// FinishAppearance marks the competitor off stage and stamps the actual
// finish time.
func (s *AppearanceService) FinishAppearance(ctx context.Context, appearanceID types.AppearanceID) (results.OperationResult[Transition, Failure], error) {
	return s.lifecycleTransition(ctx, "FinishAppearance", appearanceID, appearancedb.AppearanceStatusFinished, func(a *appearancedb.Appearance) {
		now := time.Now().UTC()
		a.ActualFinish = &now
	})
}

// IncludeAppearance settles a confirmed appearance into the published
// standings.
func (s *AppearanceService) IncludeAppearance(ctx context.Context, appearanceID types.AppearanceID) (results.OperationResult[Transition, Failure], error) {
	return s.lifecycleTransition(ctx, "IncludeAppearance", appearanceID, appearancedb.AppearanceStatusIncluded, nil)
}

// ExcludeAppearance settles a confirmed appearance out of the published
// standings.
func (s *AppearanceService) ExcludeAppearance(ctx context.Context, appearanceID types.AppearanceID) (results.OperationResult[Transition, Failure], error) {
	return s.lifecycleTransition(ctx, "ExcludeAppearance", appearanceID, appearancedb.AppearanceStatusExcluded, nil)
}

// lifecycleTransition applies a single guarded status move with an optional
// mutation under the per-appearance lock.
func (s *AppearanceService) lifecycleTransition(
	ctx context.Context,
	operationName string,
	appearanceID types.AppearanceID,
	to appearancedb.AppearanceStatus,
	mutate func(*appearancedb.Appearance),
) (results.OperationResult[Transition, Failure], error) {
	unlock := s.locks.Lock(appearanceID.String())
	defer unlock()

	return withTelemetry(s, ctx, operationName, appearanceID, func(ctx context.Context) (results.OperationResult[Transition, Failure], error) {
		var published *appearancedb.Appearance
		var from appearancedb.AppearanceStatus

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[Transition, Failure], error) {
			appearance, err := s.repo.GetAppearance(ctx, db, appearanceID)
			if err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}
			from = appearance.Status
			if err := s.transition(ctx, db, appearance, to); err != nil {
				if errors.Is(err, ErrTransitionRejected) {
					return results.Fail[Transition, Failure](Failure{Reason: err.Error()}), nil
				}
				return results.OperationResult[Transition, Failure]{}, err
			}
			if mutate != nil {
				mutate(appearance)
			}
			if err := s.repo.UpdateAppearance(ctx, db, appearance); err != nil {
				return results.OperationResult[Transition, Failure]{}, err
			}
			published = appearance
			return results.Ok[Transition, Failure](Transition{
				AppearanceID: appearance.ID,
				From:         from,
				To:           appearance.Status,
			}), nil
		})
		if err == nil && result.IsSuccess() && published != nil {
			s.publishStateChanged(ctx, published, from)
		}
		return result, err
	})
}

// IncludeForRound and ExcludeForRound run the settle transitions inside the
// round finish transaction.
func (s *AppearanceService) IncludeForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error {
	return s.settleForRound(ctx, db, appearanceID, appearancedb.AppearanceStatusIncluded)
}

func (s *AppearanceService) ExcludeForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error {
	return s.settleForRound(ctx, db, appearanceID, appearancedb.AppearanceStatusExcluded)
}

func (s *AppearanceService) settleForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID, to appearancedb.AppearanceStatus) error {
	appearance, err := s.repo.GetAppearance(ctx, db, appearanceID)
	if err != nil {
		return err
	}
	from := appearance.Status
	if err := s.transition(ctx, db, appearance, to); err != nil {
		return err
	}
	if err := s.repo.UpdateAppearance(ctx, db, appearance); err != nil {
		return err
	}
	s.publishStateChanged(ctx, appearance, from)
	return nil
}
