package appearanceservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/results"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// scoreEditable reports whether raw points may still change in this status.
// Settled appearances only change through an administrative correction.
func scoreEditable(status appearancedb.AppearanceStatus) bool {
	switch status {
	case appearancedb.AppearanceStatusBuilt,
		appearancedb.AppearanceStatusStarted,
		appearancedb.AppearanceStatusFinished,
		appearancedb.AppearanceStatusConfirmed:
		return true
	}
	return false
}

// UpdateScore sets one panelist's raw points for a song. A correction on a
// confirmed appearance requires a follow-up ConfirmAppearance to rebuild the
// aggregates.
func (s *AppearanceService) UpdateScore(ctx context.Context, appearanceID types.AppearanceID, scoreID types.ScoreID, points int) (results.OperationResult[ScoreUpdated, Failure], error) {
	unlock := s.locks.Lock(appearanceID.String())
	defer unlock()

	return withTelemetry(s, ctx, "UpdateScore", appearanceID, func(ctx context.Context) (results.OperationResult[ScoreUpdated, Failure], error) {
		if points < 0 || points > 100 {
			return results.Fail[ScoreUpdated, Failure](Failure{
				Reason: fmt.Sprintf("%s: %d", ErrInvalidPoints, points),
			}), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[ScoreUpdated, Failure], error) {
			appearance, err := s.repo.GetAppearance(ctx, db, appearanceID)
			if err != nil {
				return results.OperationResult[ScoreUpdated, Failure]{}, err
			}
			if !scoreEditable(appearance.Status) {
				return results.Fail[ScoreUpdated, Failure](Failure{
					Reason: fmt.Sprintf("%s: appearance is %s", ErrScoreLocked, appearance.Status),
				}), nil
			}

			score, err := s.repo.GetScore(ctx, db, scoreID)
			if err != nil {
				return results.OperationResult[ScoreUpdated, Failure]{}, err
			}
			songs, err := s.repo.ListSongs(ctx, db, appearanceID)
			if err != nil {
				return results.OperationResult[ScoreUpdated, Failure]{}, err
			}
			owned := false
			for _, song := range songs {
				if song.ID == score.SongID {
					owned = true
					break
				}
			}
			if !owned {
				return results.OperationResult[ScoreUpdated, Failure]{}, fmt.Errorf("score %s does not belong to appearance %s", scoreID, appearanceID)
			}

			if err := s.repo.UpdateScorePoints(ctx, db, scoreID, points); err != nil {
				return results.OperationResult[ScoreUpdated, Failure]{}, err
			}
			return results.Ok[ScoreUpdated, Failure](ScoreUpdated{ScoreID: scoreID, Points: points}), nil
		})
	})
}
