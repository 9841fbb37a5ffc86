// Package migrations holds the bun migration set for the bot's schema.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
