package appearancedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

func (AppearanceDBImpl) CreateScore(ctx context.Context, db bun.IDB, score *Score) error {
	if _, err := db.NewInsert().Model(score).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert score sentinel for song %s panelist %s: %w", score.SongID, score.PanelistID, err)
	}
	return nil
}

func (AppearanceDBImpl) ListScores(ctx context.Context, db bun.IDB, songID types.SongID) ([]Score, error) {
	var scores []Score
	err := db.NewSelect().
		Model(&scores).
		Where("sc.song_id = ?", songID).
		Order("sc.category ASC", "sc.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores for song %s: %w", songID, err)
	}
	return scores, nil
}

func (AppearanceDBImpl) GetScore(ctx context.Context, db bun.IDB, id types.ScoreID) (*Score, error) {
	var score Score
	err := db.NewSelect().
		Model(&score).
		Where("sc.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to fetch score %s: %w", id, err)
	}
	return &score, nil
}

func (AppearanceDBImpl) UpdateScorePoints(ctx context.Context, db bun.IDB, id types.ScoreID, points int) error {
	res, err := db.NewUpdate().
		Model((*Score)(nil)).
		Set("points = ?", points).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update score %s: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrScoreNotFound
	}
	return nil
}
