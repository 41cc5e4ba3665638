package isi

import (
	_ "embed"

	"github.com/refcross/refcross/dispatch"
)

//go:embed tables/tables.yaml
var tableYAML []byte

// Table returns the embedded ISI dispatch table.
func Table() dispatch.Table {
	t, err := dispatch.ParseTable(tableYAML)
	if err != nil {
		panic("isi: malformed embedded dispatch table: " + err.Error())
	}
	return t
}
