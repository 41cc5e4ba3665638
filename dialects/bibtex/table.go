// Package bibtex implements the BibTeX/BibLaTeX dialect driver: brace/quote
// aware tag=value parsing, @string macro expansion, crossref inheritance,
// and mode-selectable output styling.
package bibtex

import (
	"embed"

	"github.com/refcross/refcross/dispatch"
)

//go:embed tables/tables.yaml
var embeddedTables embed.FS

// Table loads the bundled dispatch table. Panics on a malformed embedded
// file, which would be a build-time defect, not a runtime one.
func Table() dispatch.Table {
	data, err := embeddedTables.ReadFile("tables/tables.yaml")
	if err != nil {
		panic("bibtex: missing embedded dispatch table: " + err.Error())
	}
	tbl, err := dispatch.ParseTable(data)
	if err != nil {
		panic("bibtex: invalid embedded dispatch table: " + err.Error())
	}
	return tbl
}
