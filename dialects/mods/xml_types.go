package mods

import "encoding/xml"

// XML struct tree for one MODS record, tagged the way the teacher's
// format/mods/serialize.go tags its XMLMods tree, adapted to round-trip
// against a fields.Store instead of a modsv1.Record.

type xmlModsCollection struct {
	XMLName xml.Name  `xml:"modsCollection"`
	Mods    []xmlMods `xml:"mods"`
}

type xmlMods struct {
	XMLName        xml.Name         `xml:"mods"`
	ID             string           `xml:"ID,attr,omitempty"`
	Version        string           `xml:"version,attr,omitempty"`
	TitleInfo      []xmlTitleInfo   `xml:"titleInfo,omitempty"`
	Name           []xmlName        `xml:"name,omitempty"`
	TypeOfResource string           `xml:"typeOfResource,omitempty"`
	Genre          []xmlGenre       `xml:"genre,omitempty"`
	OriginInfo     *xmlOriginInfo   `xml:"originInfo,omitempty"`
	Language       []xmlLanguage    `xml:"language,omitempty"`
	Abstract       string           `xml:"abstract,omitempty"`
	Note           []xmlNote        `xml:"note,omitempty"`
	Subject        []xmlSubject     `xml:"subject,omitempty"`
	Identifier     []xmlIdentifier  `xml:"identifier,omitempty"`
	RelatedItem    []xmlRelatedItem `xml:"relatedItem,omitempty"`
}

type xmlTitleInfo struct {
	Type     string `xml:"type,attr,omitempty"`
	Title    string `xml:"title,omitempty"`
	Subtitle string `xml:"subTitle,omitempty"`
}

type xmlName struct {
	Type     string        `xml:"type,attr,omitempty"`
	NamePart []xmlNamePart `xml:"namePart,omitempty"`
	Role     []xmlRole     `xml:"role,omitempty"`
}

type xmlNamePart struct {
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xmlRole struct {
	RoleTerm []xmlRoleTerm `xml:"roleTerm,omitempty"`
}

type xmlRoleTerm struct {
	Type      string `xml:"type,attr,omitempty"`
	Authority string `xml:"authority,attr,omitempty"`
	Value     string `xml:",chardata"`
}

type xmlGenre struct {
	Authority string `xml:"authority,attr,omitempty"`
	Value     string `xml:",chardata"`
}

type xmlOriginInfo struct {
	Publisher  []string   `xml:"publisher,omitempty"`
	Place      []xmlPlace `xml:"place,omitempty"`
	DateIssued []xmlDate  `xml:"dateIssued,omitempty"`
	Edition    string     `xml:"edition,omitempty"`
	Issuance   string     `xml:"issuance,omitempty"`
}

type xmlPlace struct {
	PlaceTerm []xmlPlaceTerm `xml:"placeTerm,omitempty"`
}

type xmlPlaceTerm struct {
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xmlDate struct {
	Value string `xml:",chardata"`
}

type xmlLanguage struct {
	LanguageTerm []xmlLanguageTerm `xml:"languageTerm,omitempty"`
}

type xmlLanguageTerm struct {
	Type      string `xml:"type,attr,omitempty"`
	Authority string `xml:"authority,attr,omitempty"`
	Value     string `xml:",chardata"`
}

type xmlNote struct {
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xmlSubject struct {
	Authority string   `xml:"authority,attr,omitempty"`
	Topic     []string `xml:"topic,omitempty"`
}

type xmlIdentifier struct {
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xmlRelatedItem struct {
	Type      string         `xml:"type,attr,omitempty"`
	TitleInfo []xmlTitleInfo `xml:"titleInfo,omitempty"`
	Part      *xmlPart       `xml:"part,omitempty"`
}

type xmlPart struct {
	Detail []xmlDetail `xml:"detail,omitempty"`
	Extent *xmlExtent  `xml:"extent,omitempty"`
}

type xmlDetail struct {
	Type   string `xml:"type,attr,omitempty"`
	Number string `xml:"number,omitempty"`
}

type xmlExtent struct {
	Unit  string `xml:"unit,attr,omitempty"`
	Start string `xml:"start,omitempty"`
	End   string `xml:"end,omitempty"`
}
