// Package migrations embeds the SQL schema migrations for the intake archive.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
