// Package isi implements the ISI Web of Science export dialect.
package isi

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/refcross/refcross/dispatch"
	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
	"github.com/refcross/refcross/pipeline"
	"github.com/refcross/refcross/semantic"
)

const (
	wantFN = "ISI Export Format"
	wantVR = "1.0"
)

// Driver implements pipeline.Driver for ISI Web of Science exports.
type Driver struct {
	pipeline.BaseDriver
	table         dispatch.Table
	headerChecked map[*bufio.Reader]bool
}

// New returns an ISI Driver using the bundled dispatch table.
func New() *Driver {
	return &Driver{table: Table(), headerChecked: make(map[*bufio.Reader]bool)}
}

func (d *Driver) Name() string          { return "isi" }
func (d *Driver) Table() dispatch.Table { return d.table }

// ISI tags are two uppercase letters followed by a space.
func splitTag(line string) (tag, value string, ok bool) {
	if len(line) < 2 {
		return "", "", false
	}
	if line[0] < 'A' || line[0] > 'Z' || line[1] < 'A' || line[1] > 'Z' {
		return "", "", false
	}
	tag = line[:2]
	if len(line) >= 3 && line[2] == ' ' {
		return tag, strings.TrimSpace(line[3:]), true
	}
	if len(line) == 2 {
		return tag, "", true
	}
	return "", "", false
}

func (d *Driver) checkHeader(br *bufio.Reader) {
	if d.headerChecked[br] {
		return
	}
	d.headerChecked[br] = true
	for i := 0; i < 2; i++ {
		peek, err := br.Peek(64)
		if err != nil && len(peek) == 0 {
			return
		}
		line := string(peek)
		if nl := strings.IndexByte(line, '\n'); nl != -1 {
			line = line[:nl]
		}
		tag, value, ok := splitTag(strings.TrimRight(line, "\r"))
		if !ok {
			return
		}
		switch tag {
		case "FN":
			if value != wantFN {
				slog.Warn("isi: unexpected FN header", "got", value, "want", wantFN)
			}
		case "VR":
			if value != wantVR {
				slog.Warn("isi: unexpected VR header", "got", value, "want", wantVR)
			}
		default:
			return
		}
		full, _ := br.ReadString('\n')
		_ = full
	}
}

// Read accumulates lines up to the "ER" line into one record (the "ER"
// line itself is consumed but not included in the returned text),
// skipping and validating the file-level FN/VR header on first use.
func (d *Driver) Read(r *bufio.Reader) (text string, fileCharset string, hasMore bool, err error) {
	d.checkHeader(r)

	var sb strings.Builder
	wrote := false
	for {
		line, rerr := r.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(trimmed) != "" {
			tag, _, ok := splitTag(trimmed)
			if ok && tag == "ER" {
				if rerr == io.EOF {
					return sb.String(), "", wrote, nil
				}
				return sb.String(), "", true, nil
			}
			sb.WriteString(trimmed)
			sb.WriteByte('\n')
			wrote = true
		}

		if rerr == io.EOF {
			return sb.String(), "", wrote, nil
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
			// an indented continuation (e.g. a second AU entry listed
			// under the first, with no tag of its own) reuses lastTag.
			if lastTag != "" && strings.HasPrefix(line, "   ") {
				flush()
				lastValue = strings.TrimSpace(line)
			}
			continue
		}
		if value == "" {
			continue
		}
		flush()
		lastTag, lastValue = tag, value
	}
	flush()
	return store, true, nil
}

func (d *Driver) Typify(*fields.Store, string, int, *params.Params) int {
	reftype, _ := d.table.GetRefType("J")
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

func (d *Driver) Header(w io.Writer, _ *params.Params) error {
	_, err := fmt.Fprintf(w, "FN %s\nVR %s\n", wantFN, wantVR)
	return err
}

func (d *Driver) Write(store *fields.Store, w io.Writer, _ *params.Params, _ string) error {
	writeEach(w, store, fields.Author, "AU")
	if n := store.Find(fields.Title, fields.LevelMain); n != -1 {
		title := store.ValueNoUse(n)
		if m := store.Find(fields.Subtitle, fields.LevelMain); m != -1 {
			title = semantic.CombineTitle(title, store.ValueNoUse(m))
		}
		fmt.Fprintf(w, "TI %s\n", title)
	}
	if n := store.Find(fields.Title, fields.LevelHost); n != -1 {
		fmt.Fprintf(w, "SO %s\n", store.ValueNoUse(n))
	}
	writeField(w, store, fields.Language, "LA")
	writeEach(w, store, fields.Keyword, "DE")
	writeField(w, store, fields.Abstract, "AB")
	writeField(w, store, fields.Publisher, "PU")
	writeField(w, store, fields.AddressPublisher, "PI")
	writeField(w, store, fields.ISSN, "SN")
	writeField(w, store, fields.DateMonth, "PD")
	writeField(w, store, fields.DateYear, "PY")
	writeField(w, store, fields.Volume, "VL")
	writeField(w, store, fields.Issue, "IS")
	writeField(w, store, fields.PagesStart, "BP")
	writeField(w, store, fields.PagesStop, "EP")
	writeField(w, store, fields.DOI, "DI")
	writeField(w, store, fields.ISIRefNum, "UT")
	fmt.Fprint(w, "ER\n\n")
	return nil
}

func writeField(w io.Writer, store *fields.Store, tag, isiTag string) {
	if n := store.Find(tag, fields.LevelAny); n != -1 {
		fmt.Fprintf(w, "%s %s\n", isiTag, store.ValueNoUse(n))
	}
}

func writeEach(w io.Writer, store *fields.Store, tag, isiTag string) {
	for _, n := range store.FindEach(tag, fields.LevelAny, fields.LookupOpts{}) {
		fmt.Fprintf(w, "%s %s\n", isiTag, pipeToDisplay(store.ValueNoUse(n)))
	}
}

func pipeToDisplay(pipeForm string) string {
	parts := strings.Split(pipeForm, "|")
	if len(parts) < 2 {
		return pipeForm
	}
	return parts[0] + ", " + strings.Join(parts[1:], " ")
}
