// Package ris implements the RIS tagged dialect driver: strict six-
// character "XX  - " tags, a TY/ER-delimited reference body, and
// straight-line output in the same tag form.
package ris

import (
	"embed"

	"github.com/refcross/refcross/dispatch"
)

//go:embed tables/tables.yaml
var embeddedTables embed.FS

// Table loads the bundled dispatch table.
func Table() dispatch.Table {
	data, err := embeddedTables.ReadFile("tables/tables.yaml")
	if err != nil {
		panic("ris: missing embedded dispatch table: " + err.Error())
	}
	tbl, err := dispatch.ParseTable(data)
	if err != nil {
		panic("ris: invalid embedded dispatch table: " + err.Error())
	}
	return tbl
}
