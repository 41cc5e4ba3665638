package isi

import (
	"bufio"
	"strings"
	"testing"

	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
)

func TestSplitTagTwoLetterUppercase(t *testing.T) {
	tag, value, ok := splitTag("AU Doe, Jane")
	if !ok || tag != "AU" || value != "Doe, Jane" {
		t.Fatalf("splitTag() = (%q, %q, %v)", tag, value, ok)
	}
}

func TestReadSkipsHeaderAndWarnsOnMismatch(t *testing.T) {
	src := "FN Some Other Format\nVR 2.0\nPT J\nAU Doe, Jane\nTI A Title\nPY 2020\nER\n\n"
	d := New()
	br := bufio.NewReader(strings.NewReader(src))

	text, _, hasMore, err := d.Read(br)
	if err != nil || !hasMore {
		t.Fatalf("Read() error = %v hasMore=%v", err, hasMore)
	}
	if !strings.Contains(text, "AU Doe, Jane") || strings.Contains(text, "FN ") {
		t.Fatalf("unexpected record: %q", text)
	}
}

func TestProcessConvertWrite(t *testing.T) {
	src := "FN ISI Export Format\nVR 1.0\nPT J\nAU Doe, Jane\nTI Some Title: A Subtitle\nPY 2020\nBP 1\nEP 9\nER\n\n"
	d := New()
	br := bufio.NewReader(strings.NewReader(src))
	text, _, _, err := d.Read(br)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	p := params.New("test")
	raw, keep, err := d.Process(text, "in.isi", 1, p)
	if err != nil || !keep {
		t.Fatalf("Process() error = %v keep=%v", err, keep)
	}

	reftype := d.Typify(raw, "in.isi", 1, p)
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
	if err := d.Header(&sb, p); err != nil {
		t.Fatalf("Header() error = %v", err)
	}
	if err := d.Write(out, &sb, p, "doe2020"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	written := sb.String()
	if !strings.Contains(written, "FN ISI Export Format") || !strings.Contains(written, "AU Doe, Jane") || !strings.HasSuffix(strings.TrimRight(written, "\n"), "ER") {
		t.Fatalf("unexpected output: %q", written)
	}
}
