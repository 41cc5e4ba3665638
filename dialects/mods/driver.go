// Package mods serializes canonical references as MODS v3 XML, the way
// the teacher's format/mods package builds a modsv1.Record before
// marshaling it, but writing straight from a fields.Store instead of
// going through a generated protobuf spoke type.
package mods

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/refcross/refcross/dispatch"
	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
	"github.com/refcross/refcross/pipeline"
)

const modsNamespace = "http://www.loc.gov/mods/v3"

// Driver implements pipeline.Driver for MODS XML. spec.md only specifies
// the write direction; Read/Process here understand the <modsCollection>
// shape this Write produces, so a MODS file can still round-trip through
// the pipeline as an input dialect.
type Driver struct {
	pipeline.BaseDriver
	table dispatch.Table
	queue map[*bufio.Reader][]xmlMods
}

// New returns a MODS Driver using the bundled reftype table.
func New() *Driver { return &Driver{table: Table(), queue: make(map[*bufio.Reader][]xmlMods)} }

func (d *Driver) Name() string          { return "mods" }
func (d *Driver) Table() dispatch.Table { return d.table }

// CanParse sniffs a MODS document by its namespace declaration.
func (d *Driver) CanParse(peek []byte) bool {
	return strings.Contains(string(peek), "mods/v3") || strings.Contains(string(peek), "<modsCollection")
}

// Read decodes the whole <modsCollection> once per reader, then hands
// back one marshaled <mods>...</mods> fragment per call.
func (d *Driver) Read(r *bufio.Reader) (text string, fileCharset string, hasMore bool, err error) {
	if _, seen := d.queue[r]; !seen {
		data, rerr := io.ReadAll(r)
		if rerr != nil {
			return "", "", false, rerr
		}
		var coll xmlModsCollection
		if uerr := xml.Unmarshal(data, &coll); uerr != nil {
			return "", "", false, fmt.Errorf("mods: parsing modsCollection: %w", uerr)
		}
		d.queue[r] = coll.Mods
	}
	pending := d.queue[r]
	if len(pending) == 0 {
		delete(d.queue, r)
		return "", "", false, nil
	}
	d.queue[r] = pending[1:]
	out, merr := xml.Marshal(pending[0])
	if merr != nil {
		return "", "", false, merr
	}
	return string(out), "", true, nil
}

// Process decodes one <mods> fragment straight into canonical tags,
// mirroring the teacher's spokeToHub: MODS carries enough structure of
// its own that there's no flat input tag to route through Table().
func (d *Driver) Process(text string, _ string, _ int, _ *params.Params) (*fields.Store, bool, error) {
	var m xmlMods
	if err := xml.Unmarshal([]byte(text), &m); err != nil {
		return nil, false, fmt.Errorf("mods: parsing <mods>: %w", err)
	}
	store := fields.New()

	for _, ti := range m.TitleInfo {
		level := fields.LevelMain
		if ti.Type == "abbreviated" {
			continue
		}
		store.Add(fields.Title, ti.Title, level, fields.NoDups)
		if ti.Subtitle != "" {
			store.Add(fields.Subtitle, ti.Subtitle, level, fields.NoDups)
		}
	}
	for _, n := range m.Name {
		tag := nameRoleTag(n)
		family, given := "", ""
		var plain string
		for _, np := range n.NamePart {
			switch np.Type {
			case "family":
				family = np.Value
			case "given":
				given = np.Value
			default:
				plain = np.Value
			}
		}
		switch {
		case family != "" || given != "":
			store.Add(tag, pipeJoin(family, given), fields.LevelMain, fields.CanDup)
		case n.Type == "corporate":
			store.Add(tag+":CORP", plain, fields.LevelMain, fields.CanDup)
		case plain != "":
			store.Add(tag+":ASIS", plain, fields.LevelMain, fields.CanDup)
		}
	}
	if m.TypeOfResource != "" {
		store.Add(fields.Resource, m.TypeOfResource, fields.LevelMain, fields.NoDups)
	}
	for _, g := range m.Genre {
		store.Add(fields.GenreBibutils, g.Value, fields.LevelMain, fields.NoDups)
	}
	if oi := m.OriginInfo; oi != nil {
		if len(oi.Publisher) > 0 {
			store.Add(fields.Publisher, oi.Publisher[0], fields.LevelMain, fields.NoDups)
		}
		for _, pl := range oi.Place {
			for _, pt := range pl.PlaceTerm {
				if pt.Value != "" {
					store.Add(fields.AddressPublisher, pt.Value, fields.LevelMain, fields.NoDups)
				}
			}
		}
		if oi.Edition != "" {
			store.Add(fields.Edition, oi.Edition, fields.LevelMain, fields.NoDups)
		}
		for _, d := range oi.DateIssued {
			year, month, day := splitISODate(d.Value)
			if year != "" {
				store.Add(fields.DateYear, year, fields.LevelMain, fields.NoDups)
			}
			if month != "" {
				store.Add(fields.DateMonth, month, fields.LevelMain, fields.NoDups)
			}
			if day != "" {
				store.Add(fields.DateDay, day, fields.LevelMain, fields.NoDups)
			}
		}
		if oi.Issuance != "" {
			store.Add(fields.Issuance, oi.Issuance, fields.LevelMain, fields.NoDups)
		}
	}
	for _, lang := range m.Language {
		for _, lt := range lang.LanguageTerm {
			if lt.Type == "text" || lt.Type == "" {
				store.Add(fields.Language, lt.Value, fields.LevelMain, fields.NoDups)
			}
		}
	}
	if m.Abstract != "" {
		store.Add(fields.Abstract, m.Abstract, fields.LevelMain, fields.NoDups)
	}
	for _, n := range m.Note {
		store.Add(fields.Notes, n.Value, fields.LevelMain, fields.CanDup)
	}
	for _, s := range m.Subject {
		for _, topic := range s.Topic {
			store.Add(fields.Keyword, topic, fields.LevelMain, fields.CanDup)
		}
	}
	for _, id := range m.Identifier {
		store.Add(identifierTag(id.Type), id.Value, fields.LevelMain, fields.NoDups)
	}
	for _, ri := range m.RelatedItem {
		level := fields.LevelHost
		if ri.Type == "series" {
			level = fields.LevelSeries
		}
		for _, ti := range ri.TitleInfo {
			store.Add(fields.Title, ti.Title, level, fields.NoDups)
		}
		if ri.Part != nil {
			for _, det := range ri.Part.Detail {
				switch det.Type {
				case "volume":
					store.Add(fields.Volume, det.Number, level, fields.NoDups)
				case "issue":
					store.Add(fields.Issue, det.Number, level, fields.NoDups)
				}
			}
			if ri.Part.Extent != nil {
				if ri.Part.Extent.Start != "" {
					store.Add(fields.PagesStart, ri.Part.Extent.Start, fields.LevelMain, fields.NoDups)
				}
				if ri.Part.Extent.End != "" {
					store.Add(fields.PagesStop, ri.Part.Extent.End, fields.LevelMain, fields.NoDups)
				}
			}
		}
	}
	if m.ID != "" {
		store.Add(fields.RefNum, m.ID, fields.LevelMain, fields.NoDups)
	}
	return store, true, nil
}

func nameRoleTag(n xmlName) string {
	for _, r := range n.Role {
		for _, rt := range r.RoleTerm {
			switch rt.Value {
			case "editor":
				return fields.Editor
			case "translator":
				return fields.Translator
			case "compiler":
				return fields.Compiler
			}
		}
	}
	return fields.Author
}

func identifierTag(modsType string) string {
	switch modsType {
	case "doi":
		return fields.DOI
	case "isbn":
		return fields.ISBN
	case "issn":
		return fields.ISSN
	case "uri", "url":
		return fields.URL
	case "pmid":
		return fields.PMID
	case "pmc":
		return fields.PMC
	case "arxiv":
		return fields.ArXiv
	case "jstor":
		return fields.JSTOR
	default:
		return fields.SerialNumber
	}
}

func pipeJoin(family, given string) string {
	if family == "" {
		return given
	}
	if given == "" {
		return family
	}
	return family + "|" + given
}

func splitISODate(v string) (year, month, day string) {
	parts := strings.SplitN(v, "-", 3)
	if len(parts) > 0 {
		year = parts[0]
	}
	if len(parts) > 1 {
		month = parts[1]
	}
	if len(parts) > 2 {
		day = parts[2]
	}
	return
}

// Typify picks a reftype from the genre already present on the raw
// store, since Process (unlike a flat-tag dialect) has already settled
// canonical tags before Table() ever gets consulted.
func (d *Driver) Typify(store *fields.Store, _ string, _ int, _ *params.Params) int {
	genre := ""
	if n := store.Find(fields.GenreBibutils, fields.LevelMain); n != -1 {
		genre = store.ValueNoUse(n)
	}
	switch genre {
	case "book":
		return 1
	case "thesis":
		return 2
	default:
		return 0
	}
}

// Convert is close to identity: Process already wrote canonical tags, so
// this only applies the reftype's DEFAULT augmentations (a no-op when
// Process already supplied the same tag, per ApplyAugmentations).
func (d *Driver) Convert(in *fields.Store, reftype int, _ *params.Params) (*fields.Store, error) {
	out := fields.New()
	for _, f := range in.All() {
		out.Add(f.Tag, f.Value, f.Level, fields.CanDup)
	}
	d.table.ApplyAugmentations(out, reftype)
	return out, nil
}

func (d *Driver) Header(w io.Writer, _ *params.Params) error {
	_, err := fmt.Fprintf(w, "%s<modsCollection xmlns=%q>\n", xml.Header, modsNamespace)
	return err
}

func (d *Driver) Footer(w io.Writer) error {
	_, err := fmt.Fprint(w, "</modsCollection>\n")
	return err
}

// Write builds one <mods ID="refnum"> element from store's canonical
// tags and marshals it indented into the collection Header opened.
func (d *Driver) Write(store *fields.Store, w io.Writer, p *params.Params, refnum string) error {
	m := xmlMods{Version: "3.8"}
	if !p.MODS.DropKey {
		m.ID = refnum
	}

	if n := store.Find(fields.Title, fields.LevelMain); n != -1 {
		ti := xmlTitleInfo{Title: store.ValueNoUse(n)}
		if s := store.Find(fields.Subtitle, fields.LevelMain); s != -1 {
			ti.Subtitle = store.ValueNoUse(s)
		}
		m.TitleInfo = append(m.TitleInfo, ti)
	}
	if n := store.Find(fields.ShortTitle, fields.LevelMain); n != -1 {
		m.TitleInfo = append(m.TitleInfo, xmlTitleInfo{Type: "abbreviated", Title: store.ValueNoUse(n)})
	}

	m.Name = append(m.Name, namesFor(store, fields.Author, "author")...)
	m.Name = append(m.Name, namesFor(store, fields.Editor, "editor")...)
	m.Name = append(m.Name, namesFor(store, fields.Translator, "translator")...)
	m.Name = append(m.Name, namesFor(store, fields.Compiler, "compiler")...)

	if n := store.Find(fields.Resource, fields.LevelMain); n != -1 {
		m.TypeOfResource = store.ValueNoUse(n)
	} else {
		m.TypeOfResource = "text"
	}
	if n := store.Find(fields.GenreBibutils, fields.LevelMain); n != -1 {
		m.Genre = append(m.Genre, xmlGenre{Authority: "marcgt", Value: store.ValueNoUse(n)})
	}

	oi := &xmlOriginInfo{}
	if n := store.Find(fields.Publisher, fields.LevelMain); n != -1 {
		oi.Publisher = append(oi.Publisher, store.ValueNoUse(n))
	}
	if n := store.Find(fields.AddressPublisher, fields.LevelMain); n != -1 {
		oi.Place = append(oi.Place, xmlPlace{PlaceTerm: []xmlPlaceTerm{{Value: store.ValueNoUse(n)}}})
	}
	if n := store.Find(fields.Edition, fields.LevelMain); n != -1 {
		oi.Edition = store.ValueNoUse(n)
	}
	if n := store.Find(fields.Issuance, fields.LevelMain); n != -1 {
		oi.Issuance = store.ValueNoUse(n)
	} else if n := store.Find(fields.Issuance, fields.LevelHost); n != -1 {
		oi.Issuance = store.ValueNoUse(n)
	}
	if date := isoDate(store); date != "" {
		oi.DateIssued = append(oi.DateIssued, xmlDate{Value: date})
	}
	if len(oi.Publisher) > 0 || len(oi.Place) > 0 || oi.Edition != "" || len(oi.DateIssued) > 0 {
		m.OriginInfo = oi
	}

	if n := store.Find(fields.Language, fields.LevelMain); n != -1 {
		text := store.ValueNoUse(n)
		terms := []xmlLanguageTerm{{Type: "text", Value: text}}
		if code, ok := iso6392bCode(text); ok {
			terms = append(terms, xmlLanguageTerm{Type: "code", Authority: "iso639-2b", Value: code})
		}
		m.Language = append(m.Language, xmlLanguage{LanguageTerm: terms})
	}

	if n := store.Find(fields.Abstract, fields.LevelMain); n != -1 {
		m.Abstract = store.ValueNoUse(n)
	}
	for _, n := range store.FindEach(fields.Notes, fields.LevelAny, fields.LookupOpts{}) {
		m.Note = append(m.Note, xmlNote{Value: store.ValueNoUse(n)})
	}
	var topics []string
	for _, n := range store.FindEach(fields.Keyword, fields.LevelAny, fields.LookupOpts{}) {
		topics = append(topics, store.ValueNoUse(n))
	}
	if len(topics) > 0 {
		m.Subject = append(m.Subject, xmlSubject{Topic: topics})
	}

	m.Identifier = append(m.Identifier, identifiersFor(store, fields.DOI, "doi")...)
	m.Identifier = append(m.Identifier, identifiersFor(store, fields.ISBN, "isbn")...)
	m.Identifier = append(m.Identifier, identifiersFor(store, fields.ISBN13, "isbn")...)
	m.Identifier = append(m.Identifier, identifiersFor(store, fields.ISSN, "issn")...)
	m.Identifier = append(m.Identifier, identifiersFor(store, fields.URL, "uri")...)
	m.Identifier = append(m.Identifier, identifiersFor(store, fields.PMID, "pmid")...)
	m.Identifier = append(m.Identifier, identifiersFor(store, fields.PMC, "pmc")...)
	m.Identifier = append(m.Identifier, identifiersFor(store, fields.ArXiv, "arxiv")...)

	if ri := hostRelatedItem(store); ri != nil {
		m.RelatedItem = append(m.RelatedItem, *ri)
	}
	if n := store.Find(fields.Title, fields.LevelSeries); n != -1 {
		m.RelatedItem = append(m.RelatedItem, xmlRelatedItem{
			Type:      "series",
			TitleInfo: []xmlTitleInfo{{Title: store.ValueNoUse(n)}},
		})
	}

	out, err := xml.MarshalIndent(m, "  ", "  ")
	if err != nil {
		return fmt.Errorf("mods: marshaling ref %q: %w", refnum, err)
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = fmt.Fprint(w, "\n")
	return err
}

func namesFor(store *fields.Store, tag, role string) []xmlName {
	var names []xmlName
	for _, n := range store.FindEach(tag, fields.LevelAny, fields.LookupOpts{}) {
		family, given, _ := strings.Cut(store.ValueNoUse(n), "|")
		names = append(names, xmlName{
			Type:     "personal",
			NamePart: []xmlNamePart{{Type: "family", Value: family}, {Type: "given", Value: given}},
			Role:     []xmlRole{{RoleTerm: []xmlRoleTerm{{Authority: "marcrelator", Type: "text", Value: role}}}},
		})
	}
	for _, n := range store.FindEach(tag+":CORP", fields.LevelAny, fields.LookupOpts{}) {
		names = append(names, xmlName{
			Type:     "corporate",
			NamePart: []xmlNamePart{{Value: store.ValueNoUse(n)}},
			Role:     []xmlRole{{RoleTerm: []xmlRoleTerm{{Authority: "marcrelator", Type: "text", Value: role}}}},
		})
	}
	for _, n := range store.FindEach(tag+":ASIS", fields.LevelAny, fields.LookupOpts{}) {
		names = append(names, xmlName{
			NamePart: []xmlNamePart{{Value: store.ValueNoUse(n)}},
			Role:     []xmlRole{{RoleTerm: []xmlRoleTerm{{Authority: "marcrelator", Type: "text", Value: role}}}},
		})
	}
	return names
}

func identifiersFor(store *fields.Store, tag, modsType string) []xmlIdentifier {
	var out []xmlIdentifier
	for _, n := range store.FindEach(tag, fields.LevelAny, fields.LookupOpts{}) {
		out = append(out, xmlIdentifier{Type: modsType, Value: store.ValueNoUse(n)})
	}
	return out
}

func hostRelatedItem(store *fields.Store) *xmlRelatedItem {
	ri := xmlRelatedItem{Type: "host"}
	if n := store.Find(fields.Title, fields.LevelHost); n != -1 {
		ri.TitleInfo = []xmlTitleInfo{{Title: store.ValueNoUse(n)}}
	}
	part := &xmlPart{}
	if n := store.Find(fields.Volume, fields.LevelHost); n != -1 {
		part.Detail = append(part.Detail, xmlDetail{Type: "volume", Number: store.ValueNoUse(n)})
	}
	if n := store.Find(fields.Issue, fields.LevelHost); n != -1 {
		part.Detail = append(part.Detail, xmlDetail{Type: "issue", Number: store.ValueNoUse(n)})
	}
	start, stop := "", ""
	if n := store.Find(fields.PagesStart, fields.LevelMain); n != -1 {
		start = store.ValueNoUse(n)
	}
	if n := store.Find(fields.PagesStop, fields.LevelMain); n != -1 {
		stop = store.ValueNoUse(n)
	}
	if start != "" || stop != "" {
		part.Extent = &xmlExtent{Unit: "pages", Start: start, End: stop}
	}
	if len(part.Detail) > 0 || part.Extent != nil {
		ri.Part = part
	}
	if len(ri.TitleInfo) == 0 && ri.Part == nil {
		return nil
	}
	return &ri
}

func isoDate(store *fields.Store) string {
	year, month, day := "", "", ""
	if n := store.Find(fields.DateYear, fields.LevelMain); n != -1 {
		year = store.ValueNoUse(n)
	}
	if year == "" {
		return ""
	}
	if n := store.Find(fields.DateMonth, fields.LevelMain); n != -1 {
		month = store.ValueNoUse(n)
	}
	if n := store.Find(fields.DateDay, fields.LevelMain); n != -1 {
		day = store.ValueNoUse(n)
	}
	date := year
	if month != "" {
		date += "-" + month
		if day != "" {
			date += "-" + day
		}
	}
	return date
}
