package roundmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	rounddb "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{
				(*rounddb.Round)(nil),
				(*rounddb.Assignment)(nil),
				(*rounddb.Panelist)(nil),
				(*rounddb.Outcome)(nil),
				(*rounddb.Grid)(nil),
			} {
				if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table for %T: %w", model, err)
				}
			}
			for _, stmt := range []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_rounds_session_kind
					ON rounds(session_id, kind)`,
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_panelists_round_num
					ON panelists(round_id, num) WHERE num IS NOT NULL`,
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_panelists_round_person
					ON panelists(round_id, category, last_name, first_name)`,
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_grids_round_num
					ON grids(round_id, num)`,
				`CREATE INDEX IF NOT EXISTS idx_outcomes_round
					ON outcomes(round_id)`,
			} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to add round index: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{
				(*rounddb.Grid)(nil),
				(*rounddb.Outcome)(nil),
				(*rounddb.Panelist)(nil),
				(*rounddb.Assignment)(nil),
				(*rounddb.Round)(nil),
			} {
				if _, err := tx.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
					return fmt.Errorf("failed to drop table for %T: %w", model, err)
				}
			}
			return nil
		})
	})
}
