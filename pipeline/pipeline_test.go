package pipeline

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/refcross/refcross/dispatch"
	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
)

// lineDriver is a minimal Driver over a toy "TAG=value" per-line format,
// blank-line delimited, used only to exercise the Engine's stage ordering
// without depending on any real dialect package.
type lineDriver struct {
	BaseDriver
	table dispatch.Table
}

func (lineDriver) Name() string { return "line" }

func (d lineDriver) Table() dispatch.Table { return d.table }

func (lineDriver) Read(r *bufio.Reader) (string, string, bool, error) {
	var sb strings.Builder
	sawAny := false
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			sawAny = true
			sb.WriteString(line)
		}
		if err == io.EOF {
			return sb.String(), "", sawAny, nil
		}
		if err != nil {
			return "", "", false, err
		}
		if strings.TrimSpace(line) == "" {
			return sb.String(), "", true, nil
		}
	}
}

func (lineDriver) Process(text string, _ string, _ int, _ *params.Params) (*fields.Store, bool, error) {
	store := fields.New()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		i := strings.IndexByte(line, '=')
		if i == -1 {
			continue
		}
		store.Add(line[:i], line[i+1:], fields.LevelMain, fields.CanDup)
	}
	return store, true, nil
}

func (lineDriver) Typify(*fields.Store, string, int, *params.Params) int { return 0 }

func (d lineDriver) Convert(in *fields.Store, reftype int, _ *params.Params) (*fields.Store, error) {
	out := fields.New()
	for _, f := range in.All() {
		_, _, canonical, ok := d.table.TranslateOldTag(f.Tag, reftype)
		if !ok {
			continue
		}
		out.Add(canonical, f.Value, f.Level, fields.NoDups)
	}
	d.table.ApplyAugmentations(out, reftype)
	return out, nil
}

func (lineDriver) Write(store *fields.Store, w io.Writer, _ *params.Params, refnum string) error {
	fmt.Fprintf(w, "REF %s\n", refnum)
	for _, f := range store.All() {
		fmt.Fprintf(w, "%s=%s\n", f.Tag, f.Value)
	}
	return nil
}

func dispatchTableFor(*params.Params) dispatch.Table {
	return dispatch.Table{
		{
			TypeName: "Default",
			Entries: []dispatch.Entry{
				{InputTag: "AU", CanonicalTag: fields.Author, Kind: dispatch.Person, Level: fields.LevelMain},
				{InputTag: "TI", CanonicalTag: fields.Title, Kind: dispatch.Title, Level: fields.LevelMain},
				{InputTag: "PY", CanonicalTag: fields.DateYear, Kind: dispatch.Date, Level: fields.LevelMain},
				{CanonicalTag: fields.Resource + "|text", Kind: dispatch.Default, Level: fields.LevelMain},
			},
		},
	}
}

func newLineDriver() lineDriver {
	return lineDriver{table: dispatchTableFor(nil)}
}

func TestEngineReadAllParsesAndUniquifies(t *testing.T) {
	input := "AU=Doe|Jane\nTI=A Title\nPY=2020\n\nAU=Doe|Jane\nTI=Another\nPY=2020\n"
	e := New(newLineDriver(), params.New("test"))

	batch, err := e.ReadAll(strings.NewReader(input), "in.txt")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("len(batch) = %d, want 2", len(batch))
	}

	keys := []string{refnumOf(batch[0], 1), refnumOf(batch[1], 2)}
	if keys[0] != "Doe2020a" || keys[1] != "Doe2020b" {
		t.Fatalf("refnums = %v, want [Doe2020a Doe2020b]", keys)
	}

	if n := batch[0].Find(fields.Resource, fields.LevelMain); n == -1 || batch[0].ValueNoUse(n) != "text" {
		t.Fatal("DEFAULT augmentation should have stamped RESOURCE=text")
	}
}

func TestEngineWriteAllSharedWriter(t *testing.T) {
	e := New(newLineDriver(), params.New("test"))
	batch, err := e.ReadAll(strings.NewReader("AU=Doe|Jane\nTI=T\nPY=2020\n"), "in.txt")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	var buf bytes.Buffer
	if err := e.WriteAll(&buf, batch, nil); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if !strings.Contains(buf.String(), "REF Doe2020") {
		t.Fatalf("output missing expected REF line: %q", buf.String())
	}
	if !strings.Contains(buf.String(), fields.Title+"=T") {
		t.Fatalf("output missing TITLE field: %q", buf.String())
	}
}

func TestEngineWriteAllSingleRefPerFile(t *testing.T) {
	p := params.New("test")
	p.SingleRefPerOutputFile = true
	e := New(newLineDriver(), p)

	batch, err := e.ReadAll(strings.NewReader("AU=A|B\nTI=One\nPY=2001\n\nAU=A|B\nTI=Two\nPY=2001\n"), "in.txt")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	opened := map[string]*bytes.Buffer{}
	open := func(refnum string) (io.WriteCloser, error) {
		buf := &bytes.Buffer{}
		opened[refnum] = buf
		return nopCloser{buf}, nil
	}

	if err := e.WriteAll(io.Discard, batch, open); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if len(opened) != 2 {
		t.Fatalf("opened %d files, want 2: %v", len(opened), opened)
	}
}

func TestOpenUniqueRetriesOnCollision(t *testing.T) {
	calls := 0
	open := func(refnum string) (io.WriteCloser, error) {
		calls++
		if refnum == "Key" {
			return nil, errors.New("already exists")
		}
		return nopCloser{&bytes.Buffer{}}, nil
	}
	w, err := openUnique(open, "Key")
	if err != nil {
		t.Fatalf("openUnique() error = %v", err)
	}
	if w == nil {
		t.Fatal("openUnique() returned nil writer")
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }
