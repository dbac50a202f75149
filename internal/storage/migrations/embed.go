// Package migrations embeds the SQL schema migrations applied by the
// sqlite store on init.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
