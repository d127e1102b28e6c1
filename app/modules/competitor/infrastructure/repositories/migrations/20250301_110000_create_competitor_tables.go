package competitormigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	competitordb "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{
				(*competitordb.Convention)(nil),
				(*competitordb.Session)(nil),
				(*competitordb.Contest)(nil),
				(*competitordb.Competitor)(nil),
			} {
				if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table for %T: %w", model, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_competitors_session_status
					ON competitors(session_id, status);
			`); err != nil {
				return fmt.Errorf("failed to add index to competitors: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{
				(*competitordb.Competitor)(nil),
				(*competitordb.Contest)(nil),
				(*competitordb.Session)(nil),
				(*competitordb.Convention)(nil),
			} {
				if _, err := tx.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
					return fmt.Errorf("failed to drop table for %T: %w", model, err)
				}
			}
			return nil
		})
	})
}
