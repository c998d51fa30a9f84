// Package migrations embeds the SQL migrations run by goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Dir is the migrations directory inside FS.
const Dir = "."
