// Package ads implements the ADS ("Astrophysics Data System") tagged
// export dialect: single-line "%X value" fields, blank-line separated,
// with a synthesized 19-character reference code opening each record.
package ads

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

// Driver implements pipeline.Driver for ADS.
type Driver struct {
	pipeline.BaseDriver
	table dispatch.Table
}

// New returns an ADS Driver using the bundled dispatch table.
func New() *Driver { return &Driver{table: Table()} }

func (d *Driver) Name() string          { return "ads" }
func (d *Driver) Table() dispatch.Table { return d.table }

// ADS tags are "%" + one letter + a space.
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
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		tag, value, ok := splitTag(line)
		if !ok {
			continue
		}
		switch tag {
		case "A", "E":
			for _, name := range strings.Split(value, "; ") {
				if name = strings.TrimSpace(name); name != "" {
					store.Add(tag, name, fields.LevelMain, fields.CanDup)
				}
			}
		case "D":
			month, year, found := strings.Cut(value, "/")
			if !found {
				store.Add("D_YEAR", value, fields.LevelMain, fields.NoDups)
				continue
			}
			if month != "" && month != "00" {
				store.Add("D_MONTH", month, fields.LevelMain, fields.NoDups)
			}
			store.Add("D_YEAR", year, fields.LevelMain, fields.NoDups)
		default:
			store.Add(tag, value, fields.LevelMain, fields.CanDup)
		}
	}
	return store, true, nil
}

func (d *Driver) Typify(*fields.Store, string, int, *params.Params) int { return 0 }

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
		case dispatch.Notes:
			tag, value := semantic.RouteNotes(f.Value)
			out.Add(tag, value, level, fields.CanDup)
		case dispatch.Keyword:
			for _, kw := range strings.Split(f.Value, ", ") {
				if kw = strings.TrimSpace(kw); kw != "" {
					out.Add(canonical, kw, level, fields.CanDup)
				}
			}
		case dispatch.URL:
			if tag, stripped, matched := semantic.ClassifyURL(f.Value); matched {
				out.Add(tag, stripped, level, fields.NoDups)
			} else {
				out.Add(canonical, f.Value, level, fields.NoDups)
			}
		case dispatch.DOI:
			out.Add(fields.DOI, strings.TrimPrefix(semantic.StripDOIPrefix(f.Value), "DOI:"), level, fields.NoDups)
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

// Assemble builds the ADS %-tagged output record (adsout_assemble's
// Go equivalent): a synthesized %R reference code, semicolon-joined
// author/editor lists, and the trailing %W/%G markers ADS always emits.
func (d *Driver) Assemble(store *fields.Store, _ *params.Params, _ string) (*fields.Store, error) {
	out := fields.New()

	year := fieldValue(store, fields.DateYear, fields.LevelAny)
	if year == "" {
		year = fieldValue(store, fields.PartDateYear, fields.LevelAny)
	}
	journalTitle := fieldValue(store, fields.Title, fields.LevelHost)
	abbrev, _ := journalAbbrev(journalTitle)
	volume := fieldValue(store, fields.Volume, fields.LevelAny)

	pageStr := fieldValue(store, fields.PagesStart, fields.LevelAny)
	hasPage := pageStr != ""
	if !hasPage {
		pageStr = fieldValue(store, fields.ArticleNumber, fields.LevelAny)
		hasPage = pageStr != ""
	}
	var page int64
	if hasPage {
		page = atoi(pageStr)
	}

	firstAuthor := ""
	if ns := store.FindEachOf([]string{fields.Author, fields.AuthorAsis, fields.AuthorCorp}, fields.LevelMain, fields.LookupOpts{}); len(ns) > 0 {
		firstAuthor = firstAuthorFamily(store.ValueNoUse(ns[0]))
	}

	out.Add("%R", buildRefCode(year, abbrev, volume, page, hasPage, firstAuthor), fields.LevelMain, fields.NoDups)

	appendPeople(store, out, "%A", fields.Author, fields.AuthorAsis, fields.AuthorCorp)
	appendPeople(store, out, "%E", fields.Editor, fields.EditorAsis, fields.EditorCorp)

	if n := store.Find(fields.Title, fields.LevelMain); n != -1 {
		title := store.ValueNoUse(n)
		if m := store.Find(fields.Subtitle, fields.LevelMain); m != -1 {
			title = semantic.CombineTitle(title, store.ValueNoUse(m))
		}
		out.Add("%T", title, fields.LevelMain, fields.NoDups)
	}
	if journalTitle != "" {
		out.Add("%J", journalTitle, fields.LevelMain, fields.NoDups)
	} else if n := store.Find(fields.ShortTitle, fields.LevelHost); n != -1 {
		out.Add("%J", store.ValueNoUse(n), fields.LevelMain, fields.NoDups)
	}

	if year != "" {
		month := 0
		if m := fieldValue(store, fields.DateMonth, fields.LevelAny); m != "" {
			month = int(atoi(m))
		}
		out.Add("%D", fmt.Sprintf("%02d/%s", month, year), fields.LevelMain, fields.NoDups)
	}

	if volume != "" {
		out.Add("%V", volume, fields.LevelMain, fields.NoDups)
	}
	if n := store.Find(fields.Issue, fields.LevelAny); n != -1 {
		out.Add("%N", store.ValueNoUse(n), fields.LevelMain, fields.NoDups)
	} else if n := store.Find(fields.Number, fields.LevelAny); n != -1 {
		out.Add("%N", store.ValueNoUse(n), fields.LevelMain, fields.NoDups)
	}
	if n := store.Find(fields.Language, fields.LevelAny); n != -1 {
		out.Add("%M", store.ValueNoUse(n), fields.LevelMain, fields.NoDups)
	}
	for _, n := range store.FindEach(fields.Notes, fields.LevelAny, fields.LookupOpts{}) {
		out.Add("%X", store.ValueNoUse(n), fields.LevelMain, fields.CanDup)
	}
	if n := store.Find(fields.Abstract, fields.LevelAny); n != -1 {
		out.Add("%B", store.ValueNoUse(n), fields.LevelMain, fields.NoDups)
	}

	var keys []string
	for _, n := range store.FindEach(fields.Keyword, fields.LevelAny, fields.LookupOpts{}) {
		keys = append(keys, store.ValueNoUse(n))
	}
	if len(keys) > 0 {
		out.Add("%K", strings.Join(keys, ", "), fields.LevelMain, fields.NoDups)
	}

	urlTags := []string{fields.URL, fields.PMID, fields.PMC, fields.ArXiv, fields.JSTOR, fields.MRNumber, fields.FileAttach, fields.FigAttach}
	var urls []string
	for _, n := range store.FindEachOf(urlTags, fields.LevelAny, fields.LookupOpts{}) {
		urls = append(urls, store.ValueNoUse(n))
	}
	if len(urls) > 0 {
		out.Add("%U", strings.Join(urls, "; "), fields.LevelMain, fields.NoDups)
	}

	if pageStr != "" {
		out.Add("%P", pageStr, fields.LevelMain, fields.NoDups)
	}
	if n := store.Find(fields.PagesStop, fields.LevelAny); n != -1 {
		out.Add("%L", store.ValueNoUse(n), fields.LevelMain, fields.NoDups)
	}

	for _, n := range store.FindEach(fields.DOI, fields.LevelAny, fields.LookupOpts{}) {
		out.Add("%Y", "DOI:"+store.ValueNoUse(n), fields.LevelMain, fields.CanDup)
	}

	out.Add("%W", "PHY", fields.LevelMain, fields.NoDups)
	out.Add("%G", "AUTHOR", fields.LevelMain, fields.NoDups)

	return out, nil
}

func appendPeople(store *fields.Store, out *fields.Store, adsTag string, tags ...string) {
	ns := store.FindEachOf(tags, fields.LevelAny, fields.LookupOpts{})
	if len(ns) == 0 {
		return
	}
	var names []string
	for _, n := range ns {
		names = append(names, pipeToDisplay(store.ValueNoUse(n)))
	}
	out.Add(adsTag, strings.Join(names, "; "), fields.LevelMain, fields.NoDups)
}

func pipeToDisplay(pipeForm string) string {
	parts := strings.Split(pipeForm, "|")
	if len(parts) < 2 {
		return pipeForm
	}
	return parts[0] + ", " + strings.Join(parts[1:], " ")
}

func fieldValue(store *fields.Store, tag string, level fields.Level) string {
	if n := store.Find(tag, level); n != -1 {
		return store.ValueNoUse(n)
	}
	return ""
}

// Write emits the already-assembled %-tagged record, one line per field.
func (d *Driver) Write(store *fields.Store, w io.Writer, _ *params.Params, _ string) error {
	for _, f := range store.All() {
		if _, err := fmt.Fprintf(w, "%s %s\n", f.Tag, f.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "\n")
	return err
}
