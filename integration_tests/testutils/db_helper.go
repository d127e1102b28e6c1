package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	appearancemigrations "github.com/barberscore/scoring-api/app/modules/appearance/infrastructure/repositories/migrations"
	competitormigrations "github.com/barberscore/scoring-api/app/modules/competitor/infrastructure/repositories/migrations"
	roundmigrations "github.com/barberscore/scoring-api/app/modules/round/infrastructure/repositories/migrations"
	statelogmigrations "github.com/barberscore/scoring-api/app/shared/statelog/migrations"
)

// runMigrations brings a fresh database up to the current schema, including
// the River job tables.
func runMigrations(ctx context.Context, db *bun.DB, pgConnStr string) error {
	migrator := migrate.NewMigrator(db, statelogmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	if err := runRiverMigrations(ctx, pgConnStr); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}

	// Ordered so foreign key targets exist before their referrers.
	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"statelog", statelogmigrations.Migrations},
		{"competitor", competitormigrations.Migrations},
		{"round", roundmigrations.Migrations},
		{"appearance", appearancemigrations.Migrations},
	}

	for _, mod := range orderedModules {
		if err := runModuleMigrations(ctx, db, mod.migrations, mod.name); err != nil {
			return err
		}
	}
	return nil
}

func runRiverMigrations(ctx context.Context, connStr string) error {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return fmt.Errorf("failed to parse DSN for River migrations: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}

	_, err = migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

func runModuleMigrations(ctx context.Context, db *bun.DB, migrations *migrate.Migrations, name string) error {
	migrator := migrate.NewMigrator(db, migrations)
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", name, err)
	}
	if group.ID == 0 {
		log.Printf("No %s migrations to run", name)
	}
	return nil
}

// appTables lists every application table in foreign key order.
var appTables = []string{
	"state_logs",
	"grids",
	"songs",
	"scores",
	"appearances",
	"outcomes",
	"panelists",
	"rounds",
	"contests",
	"competitors",
	"sessions",
	"assignments",
	"conventions",
}

// CleanupDatabase truncates all application tables and drains River jobs so
// each test starts from an empty schema.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		if !strings.Contains(err.Error(), "does not exist") {
			return fmt.Errorf("failed to clean river jobs: %w", err)
		}
	}
	return nil
}
