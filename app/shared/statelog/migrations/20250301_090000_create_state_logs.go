package statelogmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/app/shared/statelog"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().Model((*statelog.Record)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create state_logs table: %w", err)
		}
		if _, err := db.ExecContext(ctx, `
			CREATE INDEX IF NOT EXISTS idx_state_logs_object
				ON state_logs(object_kind, object_id);
		`); err != nil {
			return fmt.Errorf("failed to add index to state_logs: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewDropTable().Model((*statelog.Record)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop state_logs table: %w", err)
		}
		return nil
	})
}
