package dispatch

import (
	"testing"

	"github.com/refcross/refcross/fields"
)

func testTable() Table {
	return Table{
		{
			TypeName: "Journal Article",
			Entries: []Entry{
				{InputTag: "AU", CanonicalTag: "AUTHOR", Kind: Person, Level: fields.LevelMain},
				{InputTag: "TI", CanonicalTag: "TITLE", Kind: Title, Level: fields.LevelMain},
				{CanonicalTag: "INTERNAL_TYPE|ARTICLE", Kind: Always, Level: fields.LevelMain},
				{CanonicalTag: "RESOURCE|text", Kind: Default, Level: fields.LevelMain},
			},
		},
		{
			TypeName: "Book",
			Entries: []Entry{
				{InputTag: "AU", CanonicalTag: "AUTHOR", Kind: Person, Level: fields.LevelMain},
			},
		},
	}
}

func TestGetRefTypePrefixMatch(t *testing.T) {
	tbl := testTable()
	n, isDefault := tbl.GetRefType("Journal Article in Series")
	if n != 0 || isDefault {
		t.Fatalf("GetRefType() = (%d, %v), want (0, false)", n, isDefault)
	}
}

func TestGetRefTypeUnknownDefaultsToZero(t *testing.T) {
	tbl := testTable()
	n, isDefault := tbl.GetRefType("Something Unrecognized")
	if n != 0 || !isDefault {
		t.Fatalf("GetRefType() = (%d, %v), want (0, true)", n, isDefault)
	}
}

func TestTranslateOldTag(t *testing.T) {
	tbl := testTable()
	kind, level, canonical, ok := tbl.TranslateOldTag("ti", 0)
	if !ok {
		t.Fatal("TranslateOldTag() should find TI case-insensitively")
	}
	if kind != Title || level != fields.LevelMain || canonical != "TITLE" {
		t.Fatalf("got (%v, %v, %q)", kind, level, canonical)
	}

	_, _, _, ok = tbl.TranslateOldTag("NOPE", 0)
	if ok {
		t.Fatal("TranslateOldTag() should not find an absent tag")
	}
}

func TestAugmentValue(t *testing.T) {
	tag, value := AugmentValue("INTERNAL_TYPE|ARTICLE")
	if tag != "INTERNAL_TYPE" || value != "ARTICLE" {
		t.Fatalf("AugmentValue() = (%q, %q)", tag, value)
	}
}

func TestApplyAugmentationsAlwaysAndDefault(t *testing.T) {
	tbl := testTable()
	out := fields.New()
	out.Add("RESOURCE", "software", fields.LevelMain, fields.NoDups)

	tbl.ApplyAugmentations(out, 0)

	if n := out.Find("INTERNAL_TYPE", fields.LevelMain); n == -1 || out.ValueNoUse(n) != "ARTICLE" {
		t.Fatal("ALWAYS augmentation should have stamped INTERNAL_TYPE=ARTICLE")
	}
	if n := out.Find("RESOURCE", fields.LevelMain); n == -1 || out.ValueNoUse(n) != "software" {
		t.Fatal("DEFAULT augmentation must not override an existing RESOURCE value")
	}
}

func TestParseTable(t *testing.T) {
	doc := []byte(`
variants:
  - type: "Journal Article"
    entries:
      - tag: "AU"
        canonical: "AUTHOR"
        kind: "PERSON"
        level: 0
      - canonical: "RESOURCE|text"
        kind: "DEFAULT"
        level: 0
`)
	tbl, err := ParseTable(doc)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if len(tbl) != 1 || tbl[0].TypeName != "Journal Article" {
		t.Fatalf("unexpected table: %+v", tbl)
	}
	if len(tbl[0].Entries) != 2 || tbl[0].Entries[0].Kind != Person {
		t.Fatalf("unexpected entries: %+v", tbl[0].Entries)
	}
}

func TestParseTableUnknownKind(t *testing.T) {
	doc := []byte(`
variants:
  - type: "X"
    entries:
      - tag: "A"
        canonical: "B"
        kind: "BOGUS"
        level: 0
`)
	if _, err := ParseTable(doc); err == nil {
		t.Fatal("ParseTable() should reject an unknown processing kind")
	}
}
