package evalsheet

// Kind is the way a module is assessed.
type Kind string

const (
	// KindScore records raw numeric scores on a 0-20 scale.
	KindScore Kind = "score"
	// KindRating records one of 1, 3 or 5 per criterion.
	KindRating Kind = "rating"
)

// DefaultPreviewRows is the number of merged rows shown before download.
const DefaultPreviewRows = 10

// DefaultSheet is the sheet name used for newly created workbooks.
const DefaultSheet = "Sheet1"

// DefaultOutputName is the file name offered for a consolidated workbook.
const DefaultOutputName = "documento_consolidado.xlsx"

// Options configures export behavior.
type Options struct {
	// Kind selects score or rating assessment.
	Kind Kind
	// Sheet is the sheet name for new workbooks. Empty means DefaultSheet.
	Sheet string
	// PreviewRows limits merge previews. Zero means DefaultPreviewRows.
	PreviewRows int
	// IncludeAverage specifies whether the final average is written.
	// If nil, defaults to true for score assessment, false otherwise.
	IncludeAverage *bool
	// IncludeReport specifies whether a report is added to bundles.
	// If nil, defaults to true.
	IncludeReport *bool
}

// DefaultOptions returns default export options.
func DefaultOptions() Options {
	return Options{
		Kind: KindScore,
	}
}

// SheetName returns the sheet name for new workbooks.
func (o Options) SheetName() string {
	if o.Sheet == "" {
		return DefaultSheet
	}
	return o.Sheet
}

// PreviewLimit returns the number of rows shown in previews.
func (o Options) PreviewLimit() int {
	if o.PreviewRows <= 0 {
		return DefaultPreviewRows
	}
	return o.PreviewRows
}

// ShouldIncludeAverage returns whether to write the final average.
func (o Options) ShouldIncludeAverage() bool {
	if o.IncludeAverage != nil {
		return *o.IncludeAverage
	}
	return o.Kind != KindRating
}

// ShouldIncludeReport returns whether bundles carry a report.
func (o Options) ShouldIncludeReport() bool {
	if o.IncludeReport != nil {
		return *o.IncludeReport
	}
	return true
}
