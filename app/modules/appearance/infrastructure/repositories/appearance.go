package appearancedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/types"
)

// AppearanceDBImpl implements Repository with bun.
type AppearanceDBImpl struct{}

var _ Repository = (*AppearanceDBImpl)(nil)

func (AppearanceDBImpl) CreateAppearance(ctx context.Context, db bun.IDB, appearance *Appearance) error {
	if _, err := db.NewInsert().Model(appearance).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert appearance for competitor %s: %w", appearance.CompetitorID, err)
	}
	return nil
}

func (AppearanceDBImpl) GetAppearance(ctx context.Context, db bun.IDB, id types.AppearanceID) (*Appearance, error) {
	var appearance Appearance
	err := db.NewSelect().
		Model(&appearance).
		Where("a.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch appearance %s: %w", id, err)
	}
	return &appearance, nil
}

func (AppearanceDBImpl) ListByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]Appearance, error) {
	var appearances []Appearance
	err := db.NewSelect().
		Model(&appearances).
		Where("a.round_id = ?", roundID).
		Order("a.num ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appearances for round %s: %w", roundID, err)
	}
	return appearances, nil
}

func (AppearanceDBImpl) ListRankableByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) ([]Appearance, error) {
	var appearances []Appearance
	err := db.NewSelect().
		Model(&appearances).
		Join("JOIN competitors AS c ON c.id = a.competitor_id").
		Where("a.round_id = ?", roundID).
		Where("c.is_private = FALSE").
		Where("c.status = 'STARTED'").
		Order("a.num ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankable appearances for round %s: %w", roundID, err)
	}
	return appearances, nil
}

func (AppearanceDBImpl) GetByRoundAndCompetitor(ctx context.Context, db bun.IDB, roundID types.RoundID, competitorID types.CompetitorID) (*Appearance, error) {
	var appearance Appearance
	err := db.NewSelect().
		Model(&appearance).
		Where("a.round_id = ?", roundID).
		Where("a.competitor_id = ?", competitorID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch appearance for round %s competitor %s: %w", roundID, competitorID, err)
	}
	return &appearance, nil
}

func (AppearanceDBImpl) ListByCompetitor(ctx context.Context, db bun.IDB, competitorID types.CompetitorID) ([]Appearance, error) {
	var appearances []Appearance
	err := db.NewSelect().
		Model(&appearances).
		Where("a.competitor_id = ?", competitorID).
		Order("a.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appearances for competitor %s: %w", competitorID, err)
	}
	return appearances, nil
}

func (AppearanceDBImpl) UpdateAppearance(ctx context.Context, db bun.IDB, appearance *Appearance) error {
	res, err := db.NewUpdate().
		Model(appearance).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update appearance %s: %w", appearance.ID, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (AppearanceDBImpl) CountUnsettledByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) (int, error) {
	count, err := db.NewSelect().
		Model((*Appearance)(nil)).
		Where("a.round_id = ?", roundID).
		Where("a.status NOT IN (?)", bun.In([]AppearanceStatus{
			AppearanceStatusConfirmed,
			AppearanceStatusVerified,
			AppearanceStatusIncluded,
			AppearanceStatusExcluded,
			AppearanceStatusScratched,
		})).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count unsettled appearances for round %s: %w", roundID, err)
	}
	return count, nil
}

func (AppearanceDBImpl) ResetDrawsByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	_, err := db.NewUpdate().
		Model((*Appearance)(nil)).
		Set("draw = NULL").
		Where("round_id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset draws for round %s: %w", roundID, err)
	}
	return nil
}

func (AppearanceDBImpl) DeleteByRound(ctx context.Context, db bun.IDB, roundID types.RoundID) error {
	// Leaf-first: scores, songs, then appearances.
	_, err := db.NewDelete().
		Model((*Score)(nil)).
		Where("song_id IN (SELECT sg.id FROM songs AS sg JOIN appearances AS a ON a.id = sg.appearance_id WHERE a.round_id = ?)", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete scores for round %s: %w", roundID, err)
	}
	_, err = db.NewDelete().
		Model((*Song)(nil)).
		Where("appearance_id IN (SELECT id FROM appearances WHERE round_id = ?)", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete songs for round %s: %w", roundID, err)
	}
	_, err = db.NewDelete().
		Model((*Appearance)(nil)).
		Where("round_id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete appearances for round %s: %w", roundID, err)
	}
	return nil
}
