// Package nbib implements the PubMed/MEDLINE NBIB dialect.
package nbib

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/refcross/refcross/dispatch"
	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
	"github.com/refcross/refcross/pipeline"
	"github.com/refcross/refcross/semantic"
)

// Driver implements pipeline.Driver for NBIB.
type Driver struct {
	pipeline.BaseDriver
	table dispatch.Table
}

// New returns an NBIB Driver using the bundled dispatch table.
func New() *Driver { return &Driver{table: Table()} }

func (d *Driver) Name() string          { return "nbib" }
func (d *Driver) Table() dispatch.Table { return d.table }

var tagLine = regexp.MustCompile(`^([A-Z][A-Z0-9]{0,3})\s*- ?(.*)$`)

func splitTag(line string) (tag, value string, ok bool) {
	m := tagLine.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Read accumulates lines from "PMID-" up to (but not including) the blank
// line that terminates a record.
func (d *Driver) Read(r *bufio.Reader) (text string, fileCharset string, hasMore bool, err error) {
	var sb strings.Builder
	started := false
	for {
		line, rerr := r.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")

		if !started {
			if strings.HasPrefix(trimmed, "PMID-") {
				started = true
				sb.WriteString(trimmed)
				sb.WriteByte('\n')
			}
		} else {
			if strings.TrimSpace(trimmed) == "" {
				return sb.String(), "", true, nil
			}
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
			// continuation: a line indented by six spaces ties to lastTag.
			if lastTag != "" && strings.HasPrefix(line, "      ") {
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

func (d *Driver) Typify(*fields.Store, string, int, *params.Params) int {
	reftype, _ := d.table.GetRefType("JOUR")
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
		case dispatch.DOI:
			out.Add(fields.DOI, semantic.StripDOIPrefix(strings.TrimSuffix(strings.TrimSpace(f.Value), "[doi]")), level, fields.NoDups)
		case dispatch.Keyword:
			out.Add(canonical, strings.TrimPrefix(f.Value, "*"), level, fields.CanDup)
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
	writeField(w, store, fields.PMID, "PMID")
	writeField(w, store, fields.ISSN, "IS")
	writeField(w, store, fields.Volume, "VI")
	writeField(w, store, fields.Issue, "IP")
	writeField(w, store, fields.DateYear, "DP")
	if n := store.Find(fields.Title, fields.LevelMain); n != -1 {
		title := store.ValueNoUse(n)
		if m := store.Find(fields.Subtitle, fields.LevelMain); m != -1 {
			title = semantic.CombineTitle(title, store.ValueNoUse(m))
		}
		fmt.Fprintf(w, "TI  - %s\n", title)
	}
	if n := store.Find(fields.PagesStart, fields.LevelMain); n != -1 {
		pages := store.ValueNoUse(n)
		if m := store.Find(fields.PagesStop, fields.LevelMain); m != -1 {
			pages = semantic.CollapsePages(pages, store.ValueNoUse(m), "")
		}
		fmt.Fprintf(w, "PG  - %s\n", pages)
	}
	writeEach(w, store, fields.Author, "FAU")
	writeField(w, store, fields.Language, "LA")
	writeField(w, store, fields.AddressPublisher, "PL")
	writeField(w, store, fields.DOI, "LID")
	writeField(w, store, fields.Abstract, "AB")
	writeEach(w, store, fields.Keyword, "OT")
	writeField(w, store, fields.PMC, "PMC")
	if n := store.Find(fields.Title, fields.LevelHost); n != -1 {
		fmt.Fprintf(w, "JT  - %s\n", store.ValueNoUse(n))
	}
	fmt.Fprint(w, "\n")
	return nil
}

func writeField(w io.Writer, store *fields.Store, tag, nbibTag string) {
	if n := store.Find(tag, fields.LevelAny); n != -1 {
		fmt.Fprintf(w, "%s  - %s\n", nbibTag, store.ValueNoUse(n))
	}
}

func writeEach(w io.Writer, store *fields.Store, tag, nbibTag string) {
	for _, n := range store.FindEach(tag, fields.LevelAny, fields.LookupOpts{}) {
		fmt.Fprintf(w, "%s  - %s\n", nbibTag, pipeToDisplay(store.ValueNoUse(n)))
	}
}

func pipeToDisplay(pipeForm string) string {
	parts := strings.Split(pipeForm, "|")
	if len(parts) < 2 {
		return pipeForm
	}
	return parts[0] + ", " + strings.Join(parts[1:], " ")
}
