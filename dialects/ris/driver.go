package ris

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

// Driver implements pipeline.Driver for RIS.
type Driver struct {
	pipeline.BaseDriver
	table dispatch.Table
}

// New returns a RIS Driver using the bundled dispatch table.
func New() *Driver { return &Driver{table: Table()} }

func (d *Driver) Name() string          { return "ris" }
func (d *Driver) Table() dispatch.Table { return d.table }

// ris tags are six characters: two letters, two spaces, a dash, a space
// ("AU  - "), tolerated with up to three leading/trailing space variance
// per spec.md's RIS read rule. A reference begins at "TY  - " and ends at
// "ER  - ".
func splitTag(line string) (tag, value string, ok bool) {
	i := strings.Index(line, "-")
	if i < 2 || i > 5 {
		return "", "", false
	}
	tag = strings.TrimSpace(line[:i])
	if tag == "" {
		return "", "", false
	}
	value = strings.TrimSpace(line[i+1:])
	return tag, value, true
}

// Read accumulates lines from "TY  - " through "ER  - " inclusive into one
// reference block.
func (d *Driver) Read(r *bufio.Reader) (text string, fileCharset string, hasMore bool, err error) {
	var sb strings.Builder
	started := false
	for {
		line, rerr := r.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		tag, _, ok := splitTag(trimmed)

		if !started {
			if ok && tag == "TY" {
				started = true
				sb.WriteString(trimmed)
				sb.WriteByte('\n')
			}
		} else {
			sb.WriteString(trimmed)
			sb.WriteByte('\n')
			if ok && tag == "ER" {
				return sb.String(), "", true, nil
			}
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
	for _, line := range strings.Split(text, "\n") {
		tag, value, ok := splitTag(line)
		if !ok || tag == "ER" || value == "" {
			continue
		}
		if tag == "TY" {
			store.Add(fields.InternalType, value, fields.LevelMain, fields.NoDups)
			continue
		}
		store.Add(tag, value, fields.LevelMain, fields.CanDup)
	}
	return store, true, nil
}

func (d *Driver) Typify(store *fields.Store, _ string, _ int, _ *params.Params) int {
	typeName := "JOUR"
	if n := store.Find(fields.InternalType, fields.LevelMain); n != -1 {
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

func (d *Driver) Header(io.Writer, *params.Params) error { return nil }
func (d *Driver) Footer(io.Writer) error                 { return nil }

func (d *Driver) Write(store *fields.Store, w io.Writer, _ *params.Params, _ string) error {
	fmt.Fprintf(w, "TY  - %s\n", risType(store))
	writeEach(w, store, fields.Author, "AU")
	writeEach(w, store, fields.Editor, "A2")
	if n := store.Find(fields.Title, fields.LevelMain); n != -1 {
		title := store.ValueNoUse(n)
		if m := store.Find(fields.Subtitle, fields.LevelMain); m != -1 {
			title = semantic.CombineTitle(title, store.ValueNoUse(m))
		}
		fmt.Fprintf(w, "TI  - %s\n", title)
	}
	writeField(w, store, fields.Volume, "VL")
	writeField(w, store, fields.Issue, "IS")
	writeField(w, store, fields.PagesStart, "SP")
	writeField(w, store, fields.PagesStop, "EP")
	writeField(w, store, fields.DateYear, "PY")
	writeField(w, store, fields.Publisher, "PB")
	writeField(w, store, fields.Address, "CY")
	writeField(w, store, fields.ISSN, "SN")
	writeField(w, store, fields.DOI, "DO")
	writeField(w, store, fields.URL, "UR")
	writeField(w, store, fields.Abstract, "AB")
	writeEach(w, store, fields.Keyword, "KW")
	fmt.Fprint(w, "ER  - \n\n")
	return nil
}

func risType(store *fields.Store) string {
	if n := store.Find(fields.GenreBibutils, fields.LevelMain); n != -1 {
		switch store.ValueNoUse(n) {
		case "book":
			return "BOOK"
		case "conference publication":
			return "CPAPER"
		}
	}
	return "JOUR"
}

func writeField(w io.Writer, store *fields.Store, tag, risTag string) {
	if n := store.Find(tag, fields.LevelAny); n != -1 {
		fmt.Fprintf(w, "%s  - %s\n", risTag, store.ValueNoUse(n))
	}
}

func writeEach(w io.Writer, store *fields.Store, tag, risTag string) {
	for _, n := range store.FindEach(tag, fields.LevelAny, fields.LookupOpts{}) {
		fmt.Fprintf(w, "%s  - %s\n", risTag, pipeToDisplay(store.ValueNoUse(n)))
	}
}

func pipeToDisplay(pipeForm string) string {
	parts := strings.Split(pipeForm, "|")
	if len(parts) < 2 {
		return pipeForm
	}
	return parts[0] + ", " + strings.Join(parts[1:], " ")
}
