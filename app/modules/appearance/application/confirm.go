package appearanceservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/attr"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// ConfirmAppearance aggregates song and appearance totals from official
// scores and refreshes the competitor's running totals. When any song trips
// the variance check, confirmation halts: song totals are kept for the
// report, the appearance keeps its prior status with no appearance
// aggregates written, and a variance report job is queued.
func (s *AppearanceService) ConfirmAppearance(ctx context.Context, appearanceID types.AppearanceID) (results.OperationResult[ConfirmOutcome, Failure], error) {
	unlock := s.locks.Lock(appearanceID.String())
	defer unlock()

	return withTelemetry(s, ctx, "ConfirmAppearance", appearanceID, func(ctx context.Context) (results.OperationResult[ConfirmOutcome, Failure], error) {
		var published *appearancedb.Appearance
		var from appearancedb.AppearanceStatus
		var flagged bool
		var roundID types.RoundID

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[ConfirmOutcome, Failure], error) {
			appearance, err := s.repo.GetAppearance(ctx, db, appearanceID)
			if err != nil {
				return results.OperationResult[ConfirmOutcome, Failure]{}, err
			}
			from = appearance.Status
			roundID = appearance.RoundID
			if !from.CanTransition(appearancedb.AppearanceStatusConfirmed) {
				return results.Fail[ConfirmOutcome, Failure](Failure{
					Reason: fmt.Sprintf("%s: %s -> %s", ErrTransitionRejected, from, appearancedb.AppearanceStatusConfirmed),
				}), nil
			}

			panelSize, err := s.panels.OfficialPanelSize(ctx, db, appearance.RoundID)
			if err != nil {
				return results.OperationResult[ConfirmOutcome, Failure]{}, fmt.Errorf("failed to size panel: %w", err)
			}
			if panelSize == 0 {
				return results.OperationResult[ConfirmOutcome, Failure]{}, fmt.Errorf("round %s has no official scoring panel", appearance.RoundID)
			}

			songs, err := s.repo.ListSongs(ctx, db, appearance.ID)
			if err != nil {
				return results.OperationResult[ConfirmOutcome, Failure]{}, err
			}

			songScores := make([][]appearancedb.Score, len(songs))
			songPoints := make([]categoryPoints, len(songs))
			for i, song := range songs {
				scores, err := s.repo.ListScores(ctx, db, song.ID)
				if err != nil {
					return results.OperationResult[ConfirmOutcome, Failure]{}, err
				}
				points := sumOfficial(scores)
				if !points.Complete {
					return results.Fail[ConfirmOutcome, Failure](Failure{
						Reason: fmt.Sprintf("%s: song %d", ErrScoresIncomplete, song.Num),
					}), nil
				}
				songScores[i] = scores
				songPoints[i] = points
			}

			for i := range songs {
				applySongAggregates(&songs[i], songPoints[i], panelSize)
				if err := s.repo.UpdateSong(ctx, db, &songs[i]); err != nil {
					return results.OperationResult[ConfirmOutcome, Failure]{}, err
				}
			}

			// Song totals are kept for the variance report; the appearance
			// itself stays unconfirmed until the panel resolves the spread.
			for i := range songs {
				if varianceFlagged(songScores[i], s.varianceThreshold) {
					flagged = true
					s.logger.WarnContext(ctx, "Variance detected, confirmation halted",
						attr.AppearanceID(appearance.ID),
						attr.Int("song_num", songs[i].Num),
					)
					return results.Ok[ConfirmOutcome, Failure](ConfirmOutcome{
						AppearanceID: appearance.ID,
						Variance:     true,
					}), nil
				}
			}
			applyAppearanceAggregates(appearance, songPoints, panelSize)

			if err := s.transition(ctx, db, appearance, appearancedb.AppearanceStatusConfirmed); err != nil {
				if errors.Is(err, ErrTransitionRejected) {
					return results.Fail[ConfirmOutcome, Failure](Failure{Reason: err.Error()}), nil
				}
				return results.OperationResult[ConfirmOutcome, Failure]{}, err
			}
			if err := s.repo.UpdateAppearance(ctx, db, appearance); err != nil {
				return results.OperationResult[ConfirmOutcome, Failure]{}, err
			}

			if err := s.competitors.Recalculate(ctx, db, appearance.CompetitorID); err != nil {
				return results.OperationResult[ConfirmOutcome, Failure]{}, fmt.Errorf("failed to recalculate competitor: %w", err)
			}

			published = appearance
			return results.Ok[ConfirmOutcome, Failure](ConfirmOutcome{
				AppearanceID: appearance.ID,
				TotPoints:    appearance.TotPoints,
				TotScore:     appearance.TotScore,
			}), nil
		})
		if err != nil {
			return result, err
		}

		if flagged && s.queue != nil {
			if qErr := s.queue.EnqueueVarianceReport(ctx, roundID, appearanceID); qErr != nil {
				s.logger.ErrorContext(ctx, "Failed to enqueue variance report",
					attr.AppearanceID(appearanceID),
					attr.Error(qErr),
				)
			}
		}
		if published != nil {
			s.publishStateChanged(ctx, published, from)
		}
		return result, nil
	})
}
