// Package migrations embeds the server's PostgreSQL schema migrations for
// use with goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
