package dispatch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/refcross/refcross/fields"
)

// yamlTable is the on-disk shape of a dialect's variants array. The
// per-dialect lookup tables are data, not code: each dialect embeds one
// YAML document of this shape and loads it through ParseTable.
type yamlTable struct {
	Variants []yamlVariant `yaml:"variants"`
}

type yamlVariant struct {
	Type    string      `yaml:"type"`
	Entries []yamlEntry `yaml:"entries"`
}

type yamlEntry struct {
	InputTag     string `yaml:"tag"`
	CanonicalTag string `yaml:"canonical"`
	Kind         string `yaml:"kind"`
	Level        int    `yaml:"level"`
}

var kindNames = map[string]Kind{
	"ALWAYS": Always, "DEFAULT": Default, "SKIP": Skip, "SIMPLE": Simple,
	"TYPE": Type, "PERSON": Person, "DATE": Date, "PAGES": Pages,
	"SERIALNO": SerialNo, "TITLE": Title, "NOTES": Notes, "DOI": DOI,
	"HOWPUBLISHED": HowPublished, "LINKEDFILE": LinkedFile, "KEYWORD": Keyword,
	"URL": URL, "GENRE": Genre, "BT_SENTE": BTSente, "BT_EPRINT": BTEprint,
	"BT_ORG": BTOrg, "BLT_THESIS_TYPE": BLTThesisType, "BLT_SCHOOL": BLTSchool,
	"BLT_EDITOR": BLTEditor, "BLT_SUBTYPE": BLTSubtype, "BLT_SKIP": BLTSkip,
	"EPRINT": Eprint,
}

// ParseTable decodes a YAML dispatch-table document into a Table.
func ParseTable(doc []byte) (Table, error) {
	var yt yamlTable
	if err := yaml.Unmarshal(doc, &yt); err != nil {
		return nil, fmt.Errorf("dispatch: parse table: %w", err)
	}
	table := make(Table, 0, len(yt.Variants))
	for _, v := range yt.Variants {
		entries := make([]Entry, 0, len(v.Entries))
		for _, e := range v.Entries {
			kind, ok := kindNames[e.Kind]
			if !ok {
				return nil, fmt.Errorf("dispatch: unknown processing kind %q in variant %q", e.Kind, v.Type)
			}
			entries = append(entries, Entry{
				InputTag:     e.InputTag,
				CanonicalTag: e.CanonicalTag,
				Kind:         kind,
				Level:        fields.Level(e.Level),
			})
		}
		table = append(table, Variant{TypeName: v.Type, Entries: entries})
	}
	return table, nil
}

// LoadTableFile reads and parses a dispatch-table YAML file from disk.
func LoadTableFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dispatch: load table %s: %w", path, err)
	}
	return ParseTable(data)
}
