package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema of the question bank and the player ledger.
var Migrations = migrate.NewMigrations()
