// Package migrations embeds the sqlite schema migrations applied by the
// sqlite driver through golang-migrate.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
