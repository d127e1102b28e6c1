package appearancemigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

func init() {
	// Derive stable migration IDs from file names.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
