package bibtex

import (
	"strings"
	"testing"

	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
)

func TestReaderSplitsEntriesAndSkipsComments(t *testing.T) {
	src := `@comment{ignored}
@string{jan = "January"}
@article{doe2020,
  author = {Doe, Jane and Roe, Richard},
  title  = {A {Study} of Things},
  year   = jan # " 2020",
  pages  = {12--20}
}
`
	r := NewReader(strings.NewReader(src))
	text, hasMore, err := r.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !hasMore {
		t.Fatal("Read() hasMore = false, want true")
	}
	if !strings.Contains(text, "@article{doe2020,") {
		t.Fatalf("unexpected block: %q", text)
	}

	entry := parseEntry(text, r.macros)
	if entry.Type != "article" || entry.Key != "doe2020" {
		t.Fatalf("entry = %+v", entry)
	}

	var gotYear string
	for _, tag := range entry.Tags {
		if tag.Name == "year" {
			gotYear = tag.Value
		}
	}
	if gotYear != "January 2020" {
		t.Fatalf("year = %q, want %q (macro + concatenation)", gotYear, "January 2020")
	}

	_, hasMore, err = r.Read()
	if err != nil {
		t.Fatalf("second Read() error = %v", err)
	}
	if hasMore {
		t.Fatal("second Read() hasMore = true, want false (only one real entry)")
	}
}

func TestSplitAuthorsWileyConvention(t *testing.T) {
	got := splitAuthors("Jane Doe, Richard Roe,")
	want := []string{"Jane Doe", "Richard Roe"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("splitAuthors() = %v, want %v", got, want)
	}
}

func TestDriverProcessAndConvert(t *testing.T) {
	src := "@article{doe2020,\n  author = {Doe, Jane},\n  title = {Some Title: A Subtitle},\n  year = {2020},\n  pages = {1--9}\n}\n"
	d := New()
	r := NewReader(strings.NewReader(src))

	text, hasMore, err := r.Read()
	if err != nil || !hasMore {
		t.Fatalf("Read() = (%q, %v, %v)", text, hasMore, err)
	}
	d.currentMacros = r.macros

	p := params.New("test")
	raw, keep, err := d.Process(text, "in.bib", 1, p)
	if err != nil || !keep {
		t.Fatalf("Process() = (keep=%v, err=%v)", keep, err)
	}

	reftype := d.Typify(raw, "in.bib", 1, p)
	out, err := d.Convert(raw, reftype, p)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if n := out.Find(fields.Title, fields.LevelMain); n == -1 || out.ValueNoUse(n) != "Some Title" {
		t.Fatalf("TITLE = %v, want %q", out.ValueNoUse(n), "Some Title")
	}
	if n := out.Find(fields.Subtitle, fields.LevelMain); n == -1 || out.ValueNoUse(n) != "A Subtitle" {
		t.Fatalf("SUBTITLE missing or wrong: index %d", n)
	}
	if n := out.Find(fields.Resource, fields.LevelMain); n == -1 || out.ValueNoUse(n) != "text" {
		t.Fatal("RESOURCE default augmentation missing")
	}
}

func TestDriverWriteRoundTrip(t *testing.T) {
	store := fields.New()
	store.Add(fields.Author, "Doe|Jane", fields.LevelMain, fields.NoDups)
	store.Add(fields.Title, "A Title", fields.LevelMain, fields.NoDups)
	store.Add(fields.DateYear, "2020", fields.LevelMain, fields.NoDups)
	store.Add(fields.PagesStart, "1", fields.LevelMain, fields.NoDups)
	store.Add(fields.PagesStop, "9", fields.LevelMain, fields.NoDups)

	d := New()
	p := params.New("test")
	p.BibTeX.BraceDelim = true

	var sb strings.Builder
	if err := d.Write(store, &sb, p, "doe2020"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "@Article{doe2020,") {
		t.Fatalf("missing entry header: %q", out)
	}
	if !strings.Contains(out, "author = {Doe, Jane}") {
		t.Fatalf("missing author line: %q", out)
	}
	if !strings.Contains(out, "pages = {1--9}") {
		t.Fatalf("missing pages line: %q", out)
	}
}
