package ris

import (
	"bufio"
	"strings"
	"testing"

	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
)

func TestSplitTagToleratesSpacing(t *testing.T) {
	tag, value, ok := splitTag("AU  - Doe, Jane")
	if !ok || tag != "AU" || value != "Doe, Jane" {
		t.Fatalf("splitTag() = (%q, %q, %v)", tag, value, ok)
	}
}

func TestReadCollectsOneRecord(t *testing.T) {
	src := "TY  - JOUR\nAU  - Doe, Jane\nTI  - A Title\nPY  - 2020\nER  - \n\nTY  - JOUR\nTI  - Second\nER  - \n"
	d := New()
	br := bufio.NewReader(strings.NewReader(src))

	text, _, hasMore, err := d.Read(br)
	if err != nil || !hasMore {
		t.Fatalf("Read() = (%q, hasMore=%v, err=%v)", text, hasMore, err)
	}
	if !strings.Contains(text, "AU  - Doe, Jane") || !strings.HasSuffix(strings.TrimRight(text, "\n"), "ER  - ") {
		t.Fatalf("unexpected block: %q", text)
	}

	text2, _, hasMore2, err := d.Read(br)
	if err != nil || !hasMore2 {
		t.Fatalf("second Read() = (%q, %v, %v)", text2, hasMore2, err)
	}
	if !strings.Contains(text2, "Second") {
		t.Fatalf("second block missing TI: %q", text2)
	}

	_, _, hasMore3, _ := d.Read(br)
	if hasMore3 {
		t.Fatal("third Read() hasMore = true, want false")
	}
}

func TestProcessConvertWrite(t *testing.T) {
	src := "TY  - JOUR\nAU  - Doe, Jane\nTI  - Some Title: A Subtitle\nPY  - 2020\nSP  - 1\nEP  - 9\nER  - \n"
	d := New()
	br := bufio.NewReader(strings.NewReader(src))
	text, _, hasMore, err := d.Read(br)
	if err != nil || !hasMore {
		t.Fatalf("Read() error = %v", err)
	}

	p := params.New("test")
	raw, keep, err := d.Process(text, "in.ris", 1, p)
	if err != nil || !keep {
		t.Fatalf("Process() = (keep=%v, err=%v)", keep, err)
	}

	reftype := d.Typify(raw, "in.ris", 1, p)
	out, err := d.Convert(raw, reftype, p)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if n := out.Find(fields.Title, fields.LevelMain); n == -1 || out.ValueNoUse(n) != "Some Title" {
		t.Fatalf("TITLE = %q", out.ValueNoUse(n))
	}
	if n := out.Find(fields.Subtitle, fields.LevelMain); n == -1 {
		t.Fatal("SUBTITLE missing")
	}
	if n := out.Find(fields.PagesStart, fields.LevelMain); n == -1 || out.ValueNoUse(n) != "1" {
		t.Fatalf("PAGES:START = %q", out.ValueNoUse(n))
	}

	var sb strings.Builder
	if err := d.Write(out, &sb, p, "doe2020"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	written := sb.String()
	if !strings.Contains(written, "TY  - JOUR") || !strings.Contains(written, "AU  - Doe, Jane") || !strings.HasSuffix(strings.TrimRight(written, "\n"), "ER  - ") {
		t.Fatalf("unexpected output: %q", written)
	}
}
