package canonical

import (
	_ "embed"

	"github.com/refcross/refcross/dispatch"
)

//go:embed tables/tables.yaml
var tableYAML []byte

// Table returns the single-variant, entry-less table for the internal
// dialect: there is nothing to translate, since Convert copies canonical
// tags straight through.
func Table() dispatch.Table {
	t, err := dispatch.ParseTable(tableYAML)
	if err != nil {
		panic("internal: malformed embedded dispatch table: " + err.Error())
	}
	return t
}
