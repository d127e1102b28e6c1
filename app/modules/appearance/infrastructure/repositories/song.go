package appearancedb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

func (AppearanceDBImpl) CreateSong(ctx context.Context, db bun.IDB, song *Song) error {
	if _, err := db.NewInsert().Model(song).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert song %d for appearance %s: %w", song.Num, song.AppearanceID, err)
	}
	return nil
}

func (AppearanceDBImpl) ListSongs(ctx context.Context, db bun.IDB, appearanceID types.AppearanceID) ([]Song, error) {
	var songs []Song
	err := db.NewSelect().
		Model(&songs).
		Where("sg.appearance_id = ?", appearanceID).
		Order("sg.num ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs for appearance %s: %w", appearanceID, err)
	}
	return songs, nil
}

func (AppearanceDBImpl) ListRankableSongsByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]Song, error) {
	var songs []Song
	err := db.NewSelect().
		Model(&songs).
		Join("JOIN appearances AS a ON a.id = sg.appearance_id").
		Join("JOIN competitors AS c ON c.id = a.competitor_id").
		Where("a.round_id = ?", roundID).
		Where("c.is_private = FALSE").
		Where("c.status = 'STARTED'").
		Order("a.num ASC", "sg.num ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankable songs for round %s: %w", roundID, err)
	}
	return songs, nil
}

func (AppearanceDBImpl) UpdateSong(ctx context.Context, db bun.IDB, song *Song) error {
	res, err := db.NewUpdate().
		Model(song).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update song %s: %w", song.ID, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrSongNotFound
	}
	return nil
}
