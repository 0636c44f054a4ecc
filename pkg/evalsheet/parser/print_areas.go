package parser

import (
	"strings"

	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/xuri/excelize/v2"
)

// ExtractPrintAreas extracts print areas from a workbook.
// Returns a map of sheet name to list of print areas.
func ExtractPrintAreas(f *excelize.File) map[string][]models.Region {
	result := make(map[string][]models.Region)

	for _, dn := range f.GetDefinedName() {
		if strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			sheetName, areas := parsePrintAreaReference(dn.RefersTo)
			if sheetName != "" && len(areas) > 0 {
				result[sheetName] = append(result[sheetName], areas...)
			}
		}
	}

	return result
}

// PrintArea returns the first print area defined for a sheet.
func PrintArea(f *excelize.File, sheetName string) (models.Region, bool) {
	areas := ExtractPrintAreas(f)[sheetName]
	if len(areas) == 0 {
		return models.Region{}, false
	}
	return areas[0], true
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10
func parsePrintAreaReference(ref string) (string, []models.Region) {
	var areas []models.Region

	// Split by comma for multiple print areas
	parts := strings.Split(ref, ",")

	var sheetName string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if idx := strings.LastIndex(part, "!"); idx >= 0 {
			sheet := strings.Trim(part[:idx], "'")
			if sheetName == "" {
				sheetName = sheet
			}

			if area, err := models.ParseRange(part[idx+1:]); err == nil {
				areas = append(areas, area)
			}
		}
	}

	return sheetName, areas
}
