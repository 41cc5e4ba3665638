package endnote

import (
	"bufio"
	"strings"
	"testing"

	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
)

func TestSplitTagPercentPlusLetter(t *testing.T) {
	tag, value, ok := splitTag("%A Doe, Jane")
	if !ok || tag != "A" || value != "Doe, Jane" {
		t.Fatalf("splitTag() = (%q, %q, %v)", tag, value, ok)
	}
}

func TestSplitAuthorsWileyConvention(t *testing.T) {
	got := splitAuthors("J. Smith, J. Doe, R. Roe,")
	want := []string{"J. Smith", "J. Doe", "R. Roe"}
	if len(got) != len(want) {
		t.Fatalf("splitAuthors() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitAuthors()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadStopsAtBlankLine(t *testing.T) {
	src := "%0 Journal Article\n%A Doe, Jane\n%T A Title\n\n%0 Book\n%T Second\n"
	d := New()
	br := bufio.NewReader(strings.NewReader(src))

	text, _, hasMore, err := d.Read(br)
	if err != nil || !hasMore {
		t.Fatalf("Read() error = %v hasMore=%v", err, hasMore)
	}
	if !strings.Contains(text, "Doe, Jane") || strings.Contains(text, "Second") {
		t.Fatalf("unexpected record: %q", text)
	}
}

func TestProcessConvertWrite(t *testing.T) {
	src := "%0 Journal Article\n%A Doe, Jane\n%T Some Title: A Subtitle\n%D 2020\n%P 1-9\n"
	d := New()
	br := bufio.NewReader(strings.NewReader(src))
	text, _, _, err := d.Read(br)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	p := params.New("test")
	raw, keep, err := d.Process(text, "in.ref", 1, p)
	if err != nil || !keep {
		t.Fatalf("Process() error = %v keep=%v", err, keep)
	}

	reftype := d.Typify(raw, "in.ref", 1, p)
	out, err := d.Convert(raw, reftype, p)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if n := out.Find(fields.Title, fields.LevelMain); n == -1 || out.ValueNoUse(n) != "Some Title" {
		t.Fatalf("TITLE = %q", out.ValueNoUse(n))
	}
	if n := out.Find(fields.PagesStart, fields.LevelMain); n == -1 || out.ValueNoUse(n) != "1" {
		t.Fatalf("PAGES:START = %q", out.ValueNoUse(n))
	}

	var sb strings.Builder
	if err := d.Write(out, &sb, p, "doe2020"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(sb.String(), "%A Doe, Jane") {
		t.Fatalf("unexpected output: %q", sb.String())
	}
}
