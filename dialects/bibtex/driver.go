package bibtex

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

// Driver implements pipeline.Driver for BibTeX/BibLaTeX.
type Driver struct {
	pipeline.BaseDriver
	table dispatch.Table

	// readers caches one Reader per underlying *bufio.Reader so repeated
	// Read calls from the Engine share the same macro table across an
	// entire file, instead of forgetting @string definitions between
	// entries.
	readers map[*bufio.Reader]*Reader

	// currentMacros is the macro table belonging to whichever Reader most
	// recently produced a block, consulted by the very next Process call.
	// The Engine always alternates one Read with one Process per
	// reference, single-threaded, so this is never stale or ambiguous.
	currentMacros map[string]string
}

// New returns a bibtex Driver using the bundled dispatch table.
func New() *Driver {
	return &Driver{table: Table(), readers: map[*bufio.Reader]*Reader{}}
}

func (d *Driver) Name() string           { return "bibtex" }
func (d *Driver) Table() dispatch.Table  { return d.table }

func (d *Driver) reader(r *bufio.Reader) *Reader {
	rd, ok := d.readers[r]
	if !ok {
		rd = &Reader{br: r, macros: map[string]string{}}
		d.readers[r] = rd
	}
	return rd
}

func (d *Driver) Read(r *bufio.Reader) (text string, fileCharset string, hasMore bool, err error) {
	rd := d.reader(r)
	text, hasMore, err = rd.Read()
	d.currentMacros = rd.macros
	return text, "", hasMore, err
}

// Process parses one BibTeX entry block into a raw FieldStore: author/
// editor name lists, title splitting, page ranges, dates, and everything
// else the embedded dispatch table's entries route, plus the crossref key
// and INTERNAL_TYPE stamp Clean later consumes.
func (d *Driver) Process(text string, filename string, nref int, p *params.Params) (*fields.Store, bool, error) {
	entry := parseEntry(text, d.currentMacros)
	if entry.Type == "" {
		return nil, false, nil
	}

	store := fields.New()
	store.Add(fields.InternalType, strings.ToUpper(entry.Type), fields.LevelMain, fields.NoDups)
	if entry.Key != "" {
		store.Add(fields.RefNum, entry.Key, fields.LevelMain, fields.NoDups)
	}

	for _, t := range entry.Tags {
		switch t.Name {
		case "author", "editor":
			field := fields.Author
			if t.Name == "editor" {
				field = fields.Editor
			}
			for _, name := range splitAuthors(t.Value) {
				res := semantic.ParseName(name, p.Asis, p.Corps)
				switch res.Kind {
				case "asis":
					store.Add(field+":ASIS", res.Canonical, fields.LevelMain, fields.CanDup)
				case "corp":
					store.Add(field+":CORP", res.Canonical, fields.LevelMain, fields.CanDup)
				default:
					store.Add(field, res.Canonical, fields.LevelMain, fields.CanDup)
				}
			}
		case "crossref":
			store.Add("CROSSREF", t.Value, fields.LevelMain, fields.NoDups)
		case "pages":
			start, stop := semantic.SplitPageRange(t.Value)
			store.Add(fields.PagesStart, start, fields.LevelMain, fields.NoDups)
			if stop != "" {
				store.Add(fields.PagesStop, stop, fields.LevelMain, fields.NoDups)
			}
		default:
			store.Add(strings.ToUpper(t.Name), t.Value, fields.LevelMain, fields.NoDups)
		}
	}
	return store, true, nil
}

// Clean resolves crossref inheritance across the batch: every field of the
// target record not already present on the referring record is copied in,
// and an inherited TITLE is re-tagged "booktitle" when the referrer is an
// INPROCEEDINGS or INCOLLECTION, per spec.md's BibTeX read rules.
func (d *Driver) Clean(batch []*fields.Store, _ *params.Params) error {
	byKey := map[string]*fields.Store{}
	for _, s := range batch {
		if n := s.Find(fields.RefNum, fields.LevelAny); n != -1 {
			byKey[s.ValueNoUse(n)] = s
		}
	}
	for _, s := range batch {
		n := s.Find("CROSSREF", fields.LevelMain)
		if n == -1 {
			continue
		}
		target, ok := byKey[s.ValueNoUse(n)]
		if !ok {
			continue
		}
		ownType := ""
		if t := s.Find(fields.InternalType, fields.LevelMain); t != -1 {
			ownType = s.ValueNoUse(t)
		}
		own := map[string]bool{}
		for _, f := range s.All() {
			if f.Value != "" {
				own[fmt.Sprintf("%d|%s", f.Level, strings.ToUpper(f.Tag))] = true
			}
		}
		for _, f := range target.All() {
			if f.Tag == fields.InternalType || f.Tag == fields.RefNum || f.Tag == "CROSSREF" {
				continue
			}
			tag := f.Tag
			if tag == fields.Title && (ownType == "INPROCEEDINGS" || ownType == "INCOLLECTION") {
				tag = "BOOKTITLE"
			}
			if own[fmt.Sprintf("%d|%s", f.Level, strings.ToUpper(tag))] {
				continue
			}
			s.Add(tag, f.Value, f.Level, fields.NoDups)
		}
	}
	return nil
}

func (d *Driver) Typify(store *fields.Store, _ string, _ int, _ *params.Params) int {
	typeName := "Misc"
	if n := store.Find(fields.InternalType, fields.LevelMain); n != -1 {
		typeName = strings.Title(strings.ToLower(store.ValueNoUse(n)))
	}
	reftype, _ := d.table.GetRefType(typeName)
	return reftype
}

// Convert routes every field in the raw entry through the embedded
// dispatch table, running the appropriate semantic operation per
// processing kind, then stamps the table's ALWAYS/DEFAULT augmentations.
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
		case dispatch.Date:
			if strings.HasSuffix(canonical, "MONTH") {
				out.Add(canonical, semantic.NormalizeMonth(f.Value), level, fields.NoDups)
			} else {
				out.Add(canonical, f.Value, level, fields.NoDups)
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
		case dispatch.Notes:
			tag, val := semantic.RouteNotes(f.Value)
			out.Add(tag, val, level, fields.NoDups)
		case dispatch.Skip:
			continue
		default:
			out.Add(canonical, f.Value, level, fields.NoDups)
		}
	}

	if n := in.Find(fields.PagesStart, fields.LevelMain); n != -1 {
		out.Add(fields.PagesStart, in.ValueNoUse(n), fields.LevelMain, fields.NoDups)
	}
	if n := in.Find(fields.PagesStop, fields.LevelMain); n != -1 {
		out.Add(fields.PagesStop, in.ValueNoUse(n), fields.LevelMain, fields.NoDups)
	}

	if title != "" {
		semantic.SplitTitle(out, fields.Title, title, fields.LevelMain, !p.SplitTitleOnColon)
	}

	d.table.ApplyAugmentations(out, reftype)
	return out, nil
}

func (d *Driver) Header(w io.Writer, p *params.Params) error { return nil }
func (d *Driver) Footer(w io.Writer) error                   { return nil }

// Write emits one reference in @Type{key, tag = "value", ...} form per
// p.BibTeX's styling bits.
func (d *Driver) Write(store *fields.Store, w io.Writer, p *params.Params, refnum string) error {
	typ := genreToBibType(store)
	key := refnum
	if p.BibTeX.DropKey {
		key = ""
	} else if p.BibTeX.StrictKey {
		key = stripNonAlnum(key)
	}

	if p.BibTeX.UppercaseTags {
		typ = strings.ToUpper(typ)
	} else {
		typ = strings.Title(strings.ToLower(typ))
	}
	fmt.Fprintf(w, "@%s{%s,\n", typ, key)

	indent := p.BibTeX.Indent
	if indent == "" {
		indent = "  "
	}

	var lines []string
	if n := store.Find(fields.Author, fields.LevelAny); n != -1 {
		names := joinNames(store, fields.Author)
		lines = append(lines, tagLine(indent, "author", names, p.BibTeX.BraceDelim))
	}
	if n := store.Find(fields.Title, fields.LevelMain); n != -1 {
		title := store.ValueNoUse(n)
		if m := store.Find(fields.Subtitle, fields.LevelMain); m != -1 {
			title = semantic.CombineTitle(title, store.ValueNoUse(m))
		}
		lines = append(lines, tagLine(indent, "title", title, p.BibTeX.BraceDelim))
	}
	if n := store.Find(fields.DateYear, fields.LevelMain); n != -1 {
		lines = append(lines, tagLine(indent, "year", store.ValueNoUse(n), p.BibTeX.BraceDelim))
	}
	start := store.Find(fields.PagesStart, fields.LevelMain)
	stop := store.Find(fields.PagesStop, fields.LevelMain)
	if start != -1 {
		sv := store.ValueNoUse(start)
		ev := ""
		if stop != -1 {
			ev = store.ValueNoUse(stop)
		}
		sep := "-"
		if !p.BibTeX.EnDash {
			sep = "--"
		}
		pages := semantic.CollapsePages(sv, ev, "")
		if ev != "" {
			pages = sv + sep + ev
		}
		lines = append(lines, tagLine(indent, "pages", pages, p.BibTeX.BraceDelim))
	}
	for _, tag := range []string{fields.Volume, fields.Number, fields.Publisher, fields.Address, fields.ISBN, fields.ISSN, fields.DOI, fields.URL} {
		if n := store.Find(tag, fields.LevelAny); n != -1 {
			lines = append(lines, tagLine(indent, strings.ToLower(tag), store.ValueNoUse(n), p.BibTeX.BraceDelim))
		}
	}

	for i, l := range lines {
		w.Write([]byte(l))
		if i < len(lines)-1 || p.BibTeX.TrailingComma {
			w.Write([]byte(","))
		}
		w.Write([]byte("\n"))
	}
	fmt.Fprintf(w, "}\n\n")
	return nil
}

func tagLine(indent, tag, value string, brace bool) string {
	open, close := `"`, `"`
	if brace {
		open, close = "{", "}"
	}
	return fmt.Sprintf("%s%s = %s%s%s", indent, tag, open, value, close)
}

func joinNames(store *fields.Store, tag string) string {
	idxs := store.FindEach(tag, fields.LevelAny, fields.LookupOpts{})
	names := make([]string, 0, len(idxs))
	for _, n := range idxs {
		names = append(names, pipeToDisplay(store.ValueNoUse(n)))
	}
	return strings.Join(names, " and ")
}

func pipeToDisplay(pipeForm string) string {
	parts := strings.Split(pipeForm, "|")
	if len(parts) < 2 {
		return pipeForm
	}
	return parts[0] + ", " + strings.Join(parts[1:], " ")
}

func genreToBibType(store *fields.Store) string {
	if n := store.Find(fields.GenreBibutils, fields.LevelMain); n != -1 {
		switch store.ValueNoUse(n) {
		case "book":
			return "Book"
		case "book chapter":
			return "Incollection"
		case "conference publication":
			return "Inproceedings"
		case "thesis":
			return "Phdthesis"
		}
	}
	return "Article"
}

func stripNonAlnum(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
