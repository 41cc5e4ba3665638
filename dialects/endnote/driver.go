// Package endnote implements the EndNote "refer" export/import dialect.
package endnote

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/refcross/refcross/dispatch"
	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
	"github.com/refcross/refcross/pipeline"
	"github.com/refcross/refcross/semantic"
)

// Driver implements pipeline.Driver for EndNote refer.
type Driver struct {
	pipeline.BaseDriver
	table dispatch.Table
}

// New returns an EndNote refer Driver using the bundled dispatch table.
func New() *Driver { return &Driver{table: Table()} }

func (d *Driver) Name() string          { return "endnote" }
func (d *Driver) Table() dispatch.Table { return d.table }

// refer tags are "%" + one character + a space.
func splitTag(line string) (tag, value string, ok bool) {
	if len(line) < 2 || line[0] != '%' {
		return "", "", false
	}
	tag = line[1:2]
	if len(line) >= 3 && line[2] == ' ' {
		return tag, line[3:], true
	}
	if len(line) == 2 {
		return tag, "", true
	}
	return "", "", false
}

// Read accumulates lines up to the blank line that separates references.
func (d *Driver) Read(r *bufio.Reader) (text string, fileCharset string, hasMore bool, err error) {
	var sb strings.Builder
	started := false
	for {
		line, rerr := r.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")

		if strings.TrimSpace(trimmed) == "" {
			if started {
				return sb.String(), "", true, nil
			}
		} else {
			started = true
			sb.WriteString(trimmed)
			sb.WriteByte('\n')
		}

		if rerr == io.EOF {
			if started {
				return sb.String(), "", true, nil
			}
			return "", "", false, nil
		}
		if rerr != nil {
			return "", "", false, rerr
		}
	}
}

func (d *Driver) Process(text string, _ string, _ int, _ *params.Params) (*fields.Store, bool, error) {
	store := fields.New()
	lastTag, lastValue := "", ""
	flush := func() {
		if lastTag == "" {
			return
		}
		if lastTag == "A" {
			for _, name := range splitAuthors(lastValue) {
				store.Add("A", name, fields.LevelMain, fields.CanDup)
			}
			return
		}
		store.Add(lastTag, lastValue, fields.LevelMain, fields.CanDup)
	}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		tag, value, ok := splitTag(line)
		if !ok {
			// a continuation line with no tag of its own joins onto the
			// previous value with a space.
			if lastTag != "" {
				lastValue += " " + strings.TrimSpace(line)
			}
			continue
		}
		flush()
		lastTag, lastValue = tag, value
	}
	flush()
	return store, true, nil
}

// splitAuthors recognizes the same Wiley convention as the BibTeX
// dialect: a trailing comma with no "and" marks a single "%A" line that
// actually packs several authors into one comma-separated list.
func splitAuthors(v string) []string {
	v = strings.TrimSpace(v)
	if strings.Contains(v, " and ") {
		parts := strings.Split(v, " and ")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	if strings.HasSuffix(v, ",") {
		parts := strings.Split(strings.TrimSuffix(v, ","), ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return []string{v}
}

func (d *Driver) Typify(store *fields.Store, _ string, _ int, _ *params.Params) int {
	typeName := "Journal Article"
	if n := store.Find("0", fields.LevelMain); n != -1 {
		typeName = store.ValueNoUse(n)
	}
	reftype, _ := d.table.GetRefType(typeName)
	return reftype
}

func (d *Driver) Convert(in *fields.Store, reftype int, p *params.Params) (*fields.Store, error) {
	out := fields.New()
	var title string
	for _, f := range in.All() {
		kind, level, canonical, ok := d.table.TranslateOldTag(f.Tag, reftype)
		if !ok {
			continue
		}
		switch kind {
		case dispatch.Title:
			if level == fields.LevelMain {
				title = f.Value
				continue
			}
			out.Add(canonical, f.Value, level, fields.NoDups)
		case dispatch.Person:
			res := semantic.ParseName(f.Value, p.Asis, p.Corps)
			tag := canonical
			switch res.Kind {
			case "asis":
				tag += ":ASIS"
			case "corp":
				tag += ":CORP"
			}
			out.Add(tag, res.Canonical, level, fields.CanDup)
		case dispatch.Date:
			out.Add(canonical, semantic.NormalizeMonth(f.Value), level, fields.NoDups)
		case dispatch.Pages:
			start, stop := semantic.SplitPageRange(f.Value)
			out.Add(fields.PagesStart, start, level, fields.NoDups)
			if stop != "" {
				out.Add(fields.PagesStop, stop, level, fields.NoDups)
			}
		case dispatch.SerialNo:
			out.Add(semantic.ClassifySerialNumber(f.Value), f.Value, level, fields.NoDups)
		case dispatch.URL:
			if tag, stripped, matched := semantic.ClassifyURL(f.Value); matched {
				out.Add(tag, stripped, level, fields.NoDups)
			} else {
				out.Add(canonical, f.Value, level, fields.NoDups)
			}
		case dispatch.DOI:
			out.Add(fields.DOI, semantic.StripDOIPrefix(f.Value), level, fields.NoDups)
		case dispatch.Keyword:
			out.Add(canonical, f.Value, level, fields.CanDup)
		case dispatch.Skip:
			continue
		default:
			out.Add(canonical, f.Value, level, fields.NoDups)
		}
	}
	if title != "" {
		semantic.SplitTitle(out, fields.Title, title, fields.LevelMain, !p.SplitTitleOnColon)
	}
	d.table.ApplyAugmentations(out, reftype)
	return out, nil
}

func (d *Driver) Write(store *fields.Store, w io.Writer, _ *params.Params, _ string) error {
	typeName := "Journal Article"
	if n := store.Find(fields.GenreBibutils, fields.LevelMain); n != -1 && store.ValueNoUse(n) == "book" {
		typeName = "Book"
	}
	fmt.Fprintf(w, "%%0 %s\n", typeName)
	if n := store.Find(fields.Title, fields.LevelMain); n != -1 {
		title := store.ValueNoUse(n)
		if m := store.Find(fields.Subtitle, fields.LevelMain); m != -1 {
			title = semantic.CombineTitle(title, store.ValueNoUse(m))
		}
		fmt.Fprintf(w, "%%T %s\n", title)
	}
	writeEach(w, store, fields.Author, "A")
	writeEach(w, store, fields.Editor, "E")
	if n := store.Find(fields.Title, fields.LevelHost); n != -1 {
		fmt.Fprintf(w, "%%J %s\n", store.ValueNoUse(n))
	}
	writeField(w, store, fields.Volume, "V")
	writeField(w, store, fields.Issue, "N")
	if n := store.Find(fields.PagesStart, fields.LevelMain); n != -1 {
		pages := store.ValueNoUse(n)
		if m := store.Find(fields.PagesStop, fields.LevelMain); m != -1 {
			pages = semantic.CollapsePages(pages, store.ValueNoUse(m), "")
		}
		fmt.Fprintf(w, "%%P %s\n", pages)
	}
	writeField(w, store, fields.DateYear, "D")
	writeField(w, store, fields.Publisher, "I")
	writeField(w, store, fields.AddressPublisher, "C")
	writeField(w, store, fields.ISSN, "@")
	writeField(w, store, fields.ISBN, "@")
	writeField(w, store, fields.Language, "L")
	writeField(w, store, fields.DOI, "R")
	writeField(w, store, fields.URL, "U")
	writeField(w, store, fields.Abstract, "X")
	writeEach(w, store, fields.Keyword, "K")
	fmt.Fprint(w, "\n")
	return nil
}

func writeField(w io.Writer, store *fields.Store, tag, referTag string) {
	if n := store.Find(tag, fields.LevelAny); n != -1 {
		fmt.Fprintf(w, "%%%s %s\n", referTag, store.ValueNoUse(n))
	}
}

func writeEach(w io.Writer, store *fields.Store, tag, referTag string) {
	for _, n := range store.FindEach(tag, fields.LevelAny, fields.LookupOpts{}) {
		fmt.Fprintf(w, "%%%s %s\n", referTag, pipeToDisplay(store.ValueNoUse(n)))
	}
}

func pipeToDisplay(pipeForm string) string {
	parts := strings.Split(pipeForm, "|")
	if len(parts) < 2 {
		return pipeForm
	}
	return parts[0] + ", " + strings.Join(parts[1:], " ")
}
