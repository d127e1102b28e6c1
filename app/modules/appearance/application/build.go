package appearanceservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
	"github.com/barberscore/scoring-api/app/shared/types"
)

// CreateForRound inserts a fresh appearance for one competitor in a round.
// It runs inside the caller's transaction as part of round build.
func (s *AppearanceService) CreateForRound(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID, num *int) (types.AppearanceID, error) {
	appearance := &appearancedb.Appearance{
		ID:           types.NewAppearanceID(),
		RoundID:      roundID,
		CompetitorID: competitorID,
		Status:       appearancedb.AppearanceStatusNew,
		Num:          num,
	}
	if err := s.repo.CreateAppearance(ctx, db, appearance); err != nil {
		return types.AppearanceID{}, fmt.Errorf("failed to create appearance: %w", err)
	}
	return appearance.ID, nil
}

// BuildForRound moves a fresh appearance to BUILT, creating its two songs and
// one empty score sentinel per scoring panelist on each. It runs inside the
// caller's transaction as part of round start.
func (s *AppearanceService) BuildForRound(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) error {
	appearance, err := s.repo.GetAppearance(ctx, db, appearanceID)
	if err != nil {
		return err
	}

	panel, err := s.panels.ScoringPanel(ctx, db, appearance.RoundID)
	if err != nil {
		return fmt.Errorf("failed to load scoring panel: %w", err)
	}

	from := appearance.Status
	if err := s.transition(ctx, db, appearance, appearancedb.AppearanceStatusBuilt); err != nil {
		return err
	}

	for num := 1; num <= appearancedb.SongsPerAppearance; num++ {
		song := &appearancedb.Song{
			ID:           types.NewSongID(),
			AppearanceID: appearance.ID,
			Num:          num,
		}
		if err := s.repo.CreateSong(ctx, db, song); err != nil {
			return fmt.Errorf("failed to create song %d: %w", num, err)
		}
		for _, panelist := range panel {
			score := &appearancedb.Score{
				ID:         types.NewScoreID(),
				SongID:     song.ID,
				PanelistID: panelist.ID,
				Kind:       appearancedb.ScoreKind(panelist.Kind),
				Category:   appearancedb.ScoreCategory(panelist.Category),
			}
			if err := s.repo.CreateScore(ctx, db, score); err != nil {
				return fmt.Errorf("failed to create score sentinel: %w", err)
			}
		}
	}

	if err := s.repo.UpdateAppearance(ctx, db, appearance); err != nil {
		return err
	}
	s.publishStateChanged(ctx, appearance, from)
	return nil
}
