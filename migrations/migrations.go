// Package migrations embeds the SQL migrations for the openid tables.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
