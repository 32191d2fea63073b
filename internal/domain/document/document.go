package document

// DateBlock is the raw date metadata attached to an archived file.
type DateBlock struct {
	Value      string
	Source     string
	Confidence Confidence
	Period     string
}

// CategoryBlock is the raw categorization metadata attached to an archived file.
type CategoryBlock struct {
	Tags       []string
	Type       string
	Confidence Confidence
}

// RawRecord is one archived file's metadata exactly as ingested from the
// manifest. Immutable after load.
type RawRecord struct {
	FilePath string
	FileName string
	Date     DateBlock
	Category CategoryBlock
	Summary  string
}

// Document is the normalized in-memory representation of one archived file
// (immutable value object). Created wholesale per manifest load, never
// mutated field-by-field.
type Document struct {
	path               string // cleaned relative path, unique per snapshot
	folder             string // containing folder path
	fileName           string
	year               int // extracted four-digit year, 0 = absent
	rawDate            string
	dateSource         string
	datePeriod         string
	dateConfidence     Confidence
	tags               []string
	docType            string
	categoryConfidence Confidence
	summary            string
}

// Reconstruct creates a Document from normalized fields (hydration, no
// validation). The normalizer in usecase/catalog is the only producer.
func Reconstruct(
	path, folder, fileName string, year int,
	date DateBlock, category CategoryBlock, summary string,
) Document {
	tags := make([]string, len(category.Tags))
	copy(tags, category.Tags)
	return Document{
		path:               path,
		folder:             folder,
		fileName:           fileName,
		year:               year,
		rawDate:            date.Value,
		dateSource:         date.Source,
		datePeriod:         date.Period,
		dateConfidence:     date.Confidence,
		tags:               tags,
		docType:            category.Type,
		categoryConfidence: category.Confidence,
		summary:            summary,
	}
}

// Path returns the cleaned relative path.
func (d *Document) Path() string { return d.path }

// Folder returns the containing folder path.
func (d *Document) Folder() string { return d.folder }

// FileName returns the original file name.
func (d *Document) FileName() string { return d.fileName }

// Year returns the extracted four-digit year, 0 if absent.
func (d *Document) Year() int { return d.year }

// HasYear reports whether a year was extracted.
func (d *Document) HasYear() bool { return d.year != 0 }

// RawDate returns the raw manifest date value.
func (d *Document) RawDate() string { return d.rawDate }

// DateSource returns the label describing where the date came from.
func (d *Document) DateSource() string { return d.dateSource }

// DatePeriod returns the time-period label.
func (d *Document) DatePeriod() string { return d.datePeriod }

// DateConfidence returns the confidence of the extracted date.
func (d *Document) DateConfidence() Confidence { return d.dateConfidence }

// Tags returns the document's tags. Callers must not mutate the slice.
func (d *Document) Tags() []string { return d.tags }

// Type returns the primary document type.
func (d *Document) Type() string { return d.docType }

// CategoryConfidence returns the confidence of the categorization.
func (d *Document) CategoryConfidence() Confidence { return d.categoryConfidence }

// Summary returns the free-text summary.
func (d *Document) Summary() string { return d.summary }
