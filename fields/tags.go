package fields

// Canonical tag vocabulary (spec.md §3). Closed set shared across every
// dialect; dialect Converters only ever write these tags into the
// canonical Store.
const (
	Author      = "AUTHOR"
	AuthorCorp  = "AUTHOR:CORP"
	AuthorAsis  = "AUTHOR:ASIS"
	Editor      = "EDITOR"
	EditorCorp  = "EDITOR:CORP"
	EditorAsis  = "EDITOR:ASIS"
	Translator  = "TRANSLATOR"
	Compiler    = "COMPILER"
	Redactor    = "REDACTOR"

	Title          = "TITLE"
	Subtitle       = "SUBTITLE"
	ShortTitle     = "SHORTTITLE"
	ShortSubtitle  = "SHORTSUBTITLE"
	PartTitle      = "PARTTITLE"

	PagesStart    = "PAGES:START"
	PagesStop     = "PAGES:STOP"
	ArticleNumber = "ARTICLENUMBER"

	DateYear  = "DATE:YEAR"
	DateMonth = "DATE:MONTH"
	DateDay   = "DATE:DAY"

	PartDateYear  = "PARTDATE:YEAR"
	PartDateMonth = "PARTDATE:MONTH"
	PartDateDay   = "PARTDATE:DAY"

	Volume = "VOLUME"
	Issue  = "ISSUE"
	Number = "NUMBER"

	Publisher        = "PUBLISHER"
	Address          = "ADDRESS"
	AddressAuthor    = "ADDRESS:AUTHOR"
	AddressPublisher = "ADDRESS:PUBLISHER"

	Language    = "LANGUAGE"
	LangCatalog = "LANGCATALOG"

	ISBN          = "ISBN"
	ISBN13        = "ISBN13"
	ISSN          = "ISSN"
	SerialNumber  = "SERIALNUMBER"
	DOI           = "DOI"
	URL           = "URL"
	PMID          = "PMID"
	PMC           = "PMC"
	ArXiv         = "ARXIV"
	JSTOR         = "JSTOR"
	MRNumber      = "MRNUMBER"
	ISIRefNum     = "ISIREFNUM"
	FileAttach    = "FILEATTACH"
	FigAttach     = "FIGATTACH"
	RefNum        = "REFNUM"
	InternalType  = "INTERNAL_TYPE"

	GenreMARC     = "GENRE:MARC"
	GenreBibutils = "GENRE:BIBUTILS"
	GenreUnknown  = "GENRE:UNKNOWN"
	Resource      = "RESOURCE"
	Issuance      = "ISSUANCE"

	Abstract    = "ABSTRACT"
	Notes       = "NOTES"
	Keyword     = "KEYWORD"
	CallNumber  = "CALLNUMBER"
	Edition     = "EDITION"
	Eprint      = "EPRINT"
	EprintType  = "EPRINTTYPE"
	ArchivePrefix = "ARCHIVEPREFIX"
	PrimaryClass  = "PRIMARYCLASS"
	Contents    = "CONTENTS"
	CrossRef    = "CROSSREF"

	DegreeGrantor     = "DEGREEGRANTOR"
	DegreeGrantorAsis = "DEGREEGRANTOR:ASIS"
	DegreeGrantorCorp = "DEGREEGRANTOR:CORP"

	ThesisType = "THESISTYPE"
	School     = "SCHOOL"

	BookTitle = "BOOKTITLE"
)
