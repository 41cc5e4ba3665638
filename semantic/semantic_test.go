package semantic

import (
	"testing"

	"github.com/refcross/refcross/fields"
	"github.com/google/go-cmp/cmp"
)

func TestSplitTitleColonAndQuestion(t *testing.T) {
	s := fields.New()
	SplitTitle(s, "TITLE", "A Study: Methods and Results", fields.LevelMain, false)
	if got := s.ValueNoUse(0); got != "A Study" {
		t.Fatalf("title = %q, want %q", got, "A Study")
	}
	if got := s.ValueNoUse(1); got != "Methods and Results" {
		t.Fatalf("subtitle = %q, want %q", got, "Methods and Results")
	}

	s2 := fields.New()
	SplitTitle(s2, "TITLE", "What Makes a Good Team Player? Personality", fields.LevelMain, false)
	if got := s2.ValueNoUse(0); got != "What Makes a Good Team Player?" {
		t.Fatalf("title = %q", got)
	}
	if got := s2.ValueNoUse(1); got != "Personality" {
		t.Fatalf("subtitle = %q", got)
	}
}

func TestSplitTitleShortPrefixNeverGetsSubtitle(t *testing.T) {
	s := fields.New()
	SplitTitle(s, "SHORTTITLE", "A Study: Methods and Results", fields.LevelMain, false)
	if s.Num() != 1 {
		t.Fatalf("Num() = %d, want 1 (no subtitle for SHORT-prefixed tags)", s.Num())
	}
	if got := s.Tag(0); got != fields.ShortTitle {
		t.Fatalf("tag = %q, want %q", got, fields.ShortTitle)
	}
}

func TestSplitTitleNoSplitFlag(t *testing.T) {
	s := fields.New()
	SplitTitle(s, "TITLE", "A Study: Methods and Results", fields.LevelMain, true)
	if s.Num() != 1 {
		t.Fatalf("Num() = %d, want 1 when nosplit is set", s.Num())
	}
}

func TestCombineTitle(t *testing.T) {
	cases := []struct{ title, sub, want string }{
		{"A Clearing in the Distance", "The Biography", "A Clearing in the Distance: The Biography"},
		{"What Makes a Good Team Player?", "Personality", "What Makes a Good Team Player? Personality"},
		{"Title Only", "", "Title Only"},
	}
	for _, c := range cases {
		if got := CombineTitle(c.title, c.sub); got != c.want {
			t.Errorf("CombineTitle(%q, %q) = %q, want %q", c.title, c.sub, got, c.want)
		}
	}
}

func TestNormalizeMonth(t *testing.T) {
	cases := map[string]string{
		"1": "01", "12": "12", "March": "03", "mar": "03", "DECEMBER": "12",
	}
	for in, want := range cases {
		if got := NormalizeMonth(in); got != want {
			t.Errorf("NormalizeMonth(%q) = %q, want %q", in, got, want)
		}
	}
	if got := NormalizeMonth("bogus"); got != "" {
		t.Errorf("NormalizeMonth(bogus) = %q, want empty", got)
	}
}

func TestClassifySerialNumber(t *testing.T) {
	cases := map[string]string{
		"0-19-852663-6":              "ISBN",
		"978-0-19-852663-6":          "ISBN13",
		"1234-5678":                  "ISSN",
		"0-19-852663-6; 0-19-852664-4": "ISBN",
		"abcdefgh":                   "SERIALNUMBER",
	}
	for in, want := range cases {
		if got := ClassifySerialNumber(in); got != want {
			t.Errorf("ClassifySerialNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassifyURL(t *testing.T) {
	cases := []struct {
		in, tag, stripped string
	}{
		{"http://arxiv.org/abs/1234.5678", "ARXIV", "1234.5678"},
		{"https://doi.org/10.1000/xyz", "DOI", "10.1000/xyz"},
		{"arXiv:1234.5678", "ARXIV", "1234.5678"},
		{"pmid:12345", "PMID", "12345"},
		{"something else", "URL", "something else"},
	}
	for _, c := range cases {
		tag, stripped, _ := ClassifyURL(c.in)
		if tag != c.tag || stripped != c.stripped {
			t.Errorf("ClassifyURL(%q) = (%q, %q), want (%q, %q)", c.in, tag, stripped, c.tag, c.stripped)
		}
	}
}

func TestIsDOI(t *testing.T) {
	cases := map[string]int{
		"10.1000/xyz":                     -1,
		"doi:10.1000/xyz":                 4,
		"doi: 10.1000/xyz":                5,
		"doi: DOI: 10.1000/xyz":           10,
		"https://doi.org/10.1000/xyz":     16,
		"not a doi":                       -1,
	}
	for in, want := range cases {
		if got := IsDOI(in); got != want {
			t.Errorf("IsDOI(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseNameBasic(t *testing.T) {
	r := ParseName("John Q. Smith", nil, nil)
	if r.Kind != "person" {
		t.Fatalf("Kind = %q, want person", r.Kind)
	}
	if r.Canonical != "Smith|John|Q." {
		t.Fatalf("Canonical = %q, want Smith|John|Q.", r.Canonical)
	}
}

func TestParseNameInverted(t *testing.T) {
	r := ParseName("Doe, Jane", nil, nil)
	if r.Canonical != "Doe|Jane" {
		t.Fatalf("Canonical = %q, want Doe|Jane", r.Canonical)
	}
}

func TestParseNameAsisOverride(t *testing.T) {
	r := ParseName("World Health Organization", []string{"World Health Organization"}, nil)
	if r.Kind != "asis" {
		t.Fatalf("Kind = %q, want asis", r.Kind)
	}
}

func TestParseNameCorpsOverride(t *testing.T) {
	r := ParseName("Acme Corp", nil, []string{"Acme Corp"})
	if r.Kind != "corp" {
		t.Fatalf("Kind = %q, want corp", r.Kind)
	}
}

func TestParseNameEtAl(t *testing.T) {
	for _, raw := range []string{"et al", "et al.", "ET AL", "et. al."} {
		r := ParseName(raw, nil, nil)
		if r.Kind != "etal" {
			t.Errorf("ParseName(%q).Kind = %q, want etal", raw, r.Kind)
		}
	}
}

func TestParseNameStabilityOnCanonicalForm(t *testing.T) {
	r := ParseName("Smith|John|Q.", nil, nil)
	if r.Canonical != "Smith|John|Q." {
		t.Fatalf("re-parsing canonical form changed it: got %q", r.Canonical)
	}
}

func TestSplitPageRange(t *testing.T) {
	start, stop := SplitPageRange("34--56")
	if start != "34" || stop != "56" {
		t.Fatalf("SplitPageRange() = (%q, %q), want (34, 56)", start, stop)
	}
	start, stop = SplitPageRange("100")
	if start != "100" || stop != "" {
		t.Fatalf("SplitPageRange() = (%q, %q), want (100, \"\")", start, stop)
	}
}

func TestCollapsePages(t *testing.T) {
	if got := CollapsePages("34", "56", ""); got != "34-56" {
		t.Fatalf("CollapsePages() = %q", got)
	}
	if got := CollapsePages("", "", "e12345"); got != "e12345" {
		t.Fatalf("CollapsePages() article-number fallback = %q", got)
	}
}

func TestInferType(t *testing.T) {
	s := fields.New()
	matches := []TypeMatch{
		{Name: "Journal Article", Type: "academic journal", Level: fields.LevelHost},
		{Name: "Book", Type: "book", Level: fields.LevelMain},
	}
	ok := InferType(s, matches, "Journal Article", fields.GenreBibutils)
	if !ok {
		t.Fatal("InferType() should find a match")
	}
	if got := s.ValueNoUse(0); got != "academic journal" {
		t.Fatalf("value = %q", got)
	}
}

func TestRouteNotes(t *testing.T) {
	tag, value := RouteNotes("see also http://arxiv.org/abs/1234.5678")
	if tag != "NOTES" {
		t.Fatalf("free text without a recognized prefix should stay NOTES, got %q", tag)
	}

	tag, value = RouteNotes("http://arxiv.org/abs/1234.5678")
	if tag != "ARXIV" || value != "1234.5678" {
		t.Fatalf("RouteNotes() = (%q, %q), want (ARXIV, 1234.5678)", tag, value)
	}
}

func TestClassifyURLAgainstCmp(t *testing.T) {
	got := []string{}
	for _, raw := range []string{"http://www.jstor.org/stable/123", "isi:ABC123"} {
		tag, _, _ := ClassifyURL(raw)
		got = append(got, tag)
	}
	want := []string{"JSTOR", "ISIREFNUM"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ClassifyURL tags mismatch (-want +got):\n%s", diff)
	}
}
