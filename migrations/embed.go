// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS holds the *.up.sql / *.down.sql files applied by golang-migrate
//
//go:embed *.sql
var FS embed.FS
