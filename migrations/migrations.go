// Package migrations embeds the goose SQL migrations of the Postgres storage.
package migrations

import "embed"

// Dir is the directory goose reads migrations from within FS.
const Dir = "."

//go:embed *.sql
var FS embed.FS
