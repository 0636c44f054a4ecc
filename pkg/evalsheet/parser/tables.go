package parser

import (
	"fmt"

	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/xuri/excelize/v2"
)

// TableOptions controls how a sheet is read as a table.
type TableOptions struct {
	// HeaderRow is the 1-based header row. Zero uses the first non-empty row.
	HeaderRow int
}

// ReadTable reads a sheet as a table whose header is a single row.
func ReadTable(f *excelize.File, sheetName, tableName string, opts TableOptions) (*models.Table, error) {
	rows, err := ExtractCells(f, sheetName)
	if err != nil {
		return nil, err
	}
	return TableFromRows(tableName, rows, opts)
}

// TableFromRows builds a table from parsed rows.
//
// The table spans the bounding box of non-empty cells. Blank header cells are named
// "Unnamed: N" and repeated names get ".1", ".2" suffixes. Fully blank data rows are dropped.
func TableFromRows(name string, rows [][]models.Value, opts TableOptions) (*models.Table, error) {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return &models.Table{Name: name}, nil
	}

	headerIdx := minRow
	if opts.HeaderRow > 0 {
		headerIdx = opts.HeaderRow - 1
		if headerIdx > maxRow {
			return nil, evalsheet.NewMalformedTableError(name,
				fmt.Sprintf("header row %d is below the last data row %d", opts.HeaderRow, maxRow+1))
		}
	}

	raw := make([]string, 0, maxCol-minCol+1)
	for col := minCol; col <= maxCol; col++ {
		raw = append(raw, models.Text(cellAt(rows, headerIdx, col)))
	}
	header := headerNames(raw)

	var records [][]models.Value
	for rowIdx := headerIdx + 1; rowIdx <= maxRow; rowIdx++ {
		rec := make([]models.Value, len(header))
		blank := true
		for col := minCol; col <= maxCol; col++ {
			v := cellAt(rows, rowIdx, col)
			if !models.IsMissing(v) {
				blank = false
				rec[col-minCol] = v
			}
		}
		if !blank {
			records = append(records, rec)
		}
	}

	return models.NewTable(name, header, records), nil
}

// headerNames fills blank names and disambiguates repeated ones.
func headerNames(raw []string) []string {
	used := make(map[string]bool, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func cellAt(rows [][]models.Value, row, col int) models.Value {
	if row < 0 || row >= len(rows) || col < 0 || col >= len(rows[row]) {
		return nil
	}
	return rows[row][col]
}

// findDataBounds finds the bounding box of non-empty cells (0-based, inclusive).
// All bounds are -1 when there is no data.
func findDataBounds(rows [][]models.Value) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if !models.IsMissing(cell) {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}

// UsedRegion returns the bounding region of non-empty cells of a sheet.
func UsedRegion(f *excelize.File, sheetName string) (models.Region, bool, error) {
	rows, err := ExtractCells(f, sheetName)
	if err != nil {
		return models.Region{}, false, err
	}
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return models.Region{}, false, nil
	}
	return models.Region{R1: minRow + 1, R2: maxRow + 2, C1: minCol + 1, C2: maxCol + 2}, true, nil
}
