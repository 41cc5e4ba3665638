package mods

import (
	_ "embed"

	"github.com/refcross/refcross/dispatch"
)

//go:embed tables/tables.yaml
var tableYAML []byte

// Table returns the embedded MODS reftype table. MODS fields don't route
// through TranslateOldTag the way a flat-tag dialect's do (Process builds
// canonical tags directly, the way the teacher's spokeToHub does), so this
// table only carries the DEFAULT augmentations Convert applies per reftype.
func Table() dispatch.Table {
	t, err := dispatch.ParseTable(tableYAML)
	if err != nil {
		panic("mods: malformed embedded dispatch table: " + err.Error())
	}
	return t
}
