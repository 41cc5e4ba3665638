// Package copac implements the COPAC union-catalog export dialect.
package copac

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

// Driver implements pipeline.Driver for COPAC.
type Driver struct {
	pipeline.BaseDriver
	table dispatch.Table
}

// New returns a COPAC Driver using the bundled dispatch table.
func New() *Driver { return &Driver{table: Table()} }

func (d *Driver) Name() string          { return "copac" }
func (d *Driver) Table() dispatch.Table { return d.table }

// COPAC tags are two uppercase letters followed by "- ".
func splitTag(line string) (tag, value string, ok bool) {
	if len(line) < 4 || line[0] < 'A' || line[0] > 'Z' || line[1] < 'A' || line[1] > 'Z' {
		return "", "", false
	}
	if line[2] != '-' || line[3] != ' ' {
		return "", "", false
	}
	return line[:2], strings.TrimSpace(line[4:]), true
}

// Read accumulates lines up to the blank line that separates records.
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
		if lastTag != "" {
			store.Add(lastTag, lastValue, fields.LevelMain, fields.CanDup)
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		tag, value, ok := splitTag(line)
		if !ok {
			// a dedented continuation line ties on to lastTag's value.
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

func (d *Driver) Typify(store *fields.Store, _ string, _ int, _ *params.Params) int {
	typeName := "BK"
	if store.Find("IS", fields.LevelMain) != -1 {
		typeName = "SE"
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
		case dispatch.SerialNo:
			out.Add(semantic.ClassifySerialNumber(f.Value), f.Value, level, fields.NoDups)
		case dispatch.Notes:
			tag, val := semantic.RouteNotes(f.Value)
			out.Add(tag, val, level, fields.NoDups)
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
	if n := store.Find(fields.Title, fields.LevelMain); n != -1 {
		title := store.ValueNoUse(n)
		if m := store.Find(fields.Subtitle, fields.LevelMain); m != -1 {
			title = semantic.CombineTitle(title, store.ValueNoUse(m))
		}
		fmt.Fprintf(w, "TI- %s\n", title)
	}
	writeEach(w, store, fields.Author, "AU")
	writeEach(w, store, fields.Editor, "ED")
	writeField(w, store, fields.DateYear, "PY")
	writeField(w, store, fields.Publisher, "PU")
	writeField(w, store, fields.AddressPublisher, "PP")
	if n := store.Find(fields.Title, fields.LevelSeries); n != -1 {
		fmt.Fprintf(w, "SE- %s\n", store.ValueNoUse(n))
	}
	writeField(w, store, fields.ISBN, "IB")
	writeField(w, store, fields.ISSN, "IS")
	writeField(w, store, fields.Language, "LA")
	writeField(w, store, fields.Notes, "NT")
	writeEach(w, store, fields.Keyword, "SU")
	writeField(w, store, fields.CallNumber, "CN")
	fmt.Fprint(w, "\n")
	return nil
}

func writeField(w io.Writer, store *fields.Store, tag, copacTag string) {
	if n := store.Find(tag, fields.LevelAny); n != -1 {
		fmt.Fprintf(w, "%s- %s\n", copacTag, store.ValueNoUse(n))
	}
}

func writeEach(w io.Writer, store *fields.Store, tag, copacTag string) {
	for _, n := range store.FindEach(tag, fields.LevelAny, fields.LookupOpts{}) {
		fmt.Fprintf(w, "%s- %s\n", copacTag, pipeToDisplay(store.ValueNoUse(n)))
	}
}

func pipeToDisplay(pipeForm string) string {
	parts := strings.Split(pipeForm, "|")
	if len(parts) < 2 {
		return pipeForm
	}
	return parts[0] + ", " + strings.Join(parts[1:], " ")
}
