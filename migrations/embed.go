// Package migrations holds the portal's SQL schema in golang-migrate layout.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
