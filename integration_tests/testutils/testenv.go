package testutils

import (
	"context"
	"log"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	"github.com/barberscore/scoring-api/database"
	"github.com/barberscore/scoring-api/integration_tests/containers"
)

// TestEnvironment holds the shared Postgres container and connection for a
// package's integration tests.
type TestEnvironment struct {
	DB        *bun.DB
	DSN       string
	container *postgres.PostgresContainer
}

// NewTestEnvironment starts Postgres, connects through bun, and runs all
// migrations. Callers share one environment per package and clean tables
// between tests with CleanupDatabase.
func NewTestEnvironment(t *testing.T) (*TestEnvironment, error) {
	t.Helper()
	ctx := context.Background()

	container, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}

	db, err := database.New(ctx, dsn)
	if err != nil {
		container.Terminate(ctx)
		return nil, err
	}

	if err := runMigrations(ctx, db, dsn); err != nil {
		db.Close()
		container.Terminate(ctx)
		return nil, err
	}

	return &TestEnvironment{DB: db, DSN: dsn, container: container}, nil
}

// Close releases the database connection and terminates the container.
func (e *TestEnvironment) Close(ctx context.Context) {
	if e.DB != nil {
		e.DB.Close()
	}
	if e.container != nil {
		if err := e.container.Terminate(ctx); err != nil {
			log.Printf("failed to terminate postgres container: %v", err)
		}
	}
}
