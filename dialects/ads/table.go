package ads

import (
	_ "embed"

	"github.com/refcross/refcross/dispatch"
)

//go:embed tables/tables.yaml
var tableYAML []byte

// Table returns the embedded ADS dispatch table, used on the read side
// (ADS output's own %-tags read back as input).
func Table() dispatch.Table {
	t, err := dispatch.ParseTable(tableYAML)
	if err != nil {
		panic("ads: malformed embedded dispatch table: " + err.Error())
	}
	return t
}
