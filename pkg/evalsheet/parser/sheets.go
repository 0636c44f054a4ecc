package parser

import (
	"strings"

	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/xuri/excelize/v2"
)

// ResolveSheet picks a sheet by selector.
//
// An empty selector means the active sheet, or the first sheet when none is active.
// Otherwise an exact name wins over a case-insensitive substring match; ties go to sheet order.
func ResolveSheet(f *excelize.File, book, selector string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", evalsheet.NewSheetError(book, selector)
	}

	if selector == "" {
		if name := f.GetSheetName(f.GetActiveSheetIndex()); name != "" {
			return name, nil
		}
		return sheets[0], nil
	}

	for _, s := range sheets {
		if s == selector {
			return s, nil
		}
	}
	needle := strings.ToLower(strings.TrimSpace(selector))
	for _, s := range sheets {
		if strings.Contains(strings.ToLower(s), needle) {
			return s, nil
		}
	}
	return "", evalsheet.NewSheetError(book, selector)
}
