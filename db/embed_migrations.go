package db

import "embed"

// MigrationFS embeds the SQL migrations applied by db/migrate
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
