package appearancemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	appearancedb "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{
				(*appearancedb.Appearance)(nil),
				(*appearancedb.Song)(nil),
				(*appearancedb.Score)(nil),
			} {
				if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table for %T: %w", model, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_appearances_round_competitor
					ON appearances(round_id, competitor_id);
			`); err != nil {
				return fmt.Errorf("failed to add unique index to appearances: %w", err)
			}
			// One advancement slot per round; draw 0 is the single alternate.
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_appearances_round_draw
					ON appearances(round_id, draw) WHERE draw IS NOT NULL;
			`); err != nil {
				return fmt.Errorf("failed to add draw index to appearances: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_songs_appearance_num
					ON songs(appearance_id, num);
			`); err != nil {
				return fmt.Errorf("failed to add unique index to songs: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_scores_song_panelist
					ON scores(song_id, panelist_id);
			`); err != nil {
				return fmt.Errorf("failed to add unique index to scores: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{
				(*appearancedb.Score)(nil),
				(*appearancedb.Song)(nil),
				(*appearancedb.Appearance)(nil),
			} {
				if _, err := tx.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
					return fmt.Errorf("failed to drop table for %T: %w", model, err)
				}
			}
			return nil
		})
	})
}
