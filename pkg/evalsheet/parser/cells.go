// Package parser reads spreadsheet content into evaluation tables.
package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/xuri/excelize/v2"
)

// ExtractCells reads every row of a sheet as parsed values.
// Empty cells become nil; the rows are not padded to a common width.
// Only cells stored as numbers or booleans are converted; text cells stay strings, so
// "007" or "+351..." keep their exact text.
func ExtractCells(f *excelize.File, sheetName string) ([][]models.Value, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	result := make([][]models.Value, len(rows))
	for rowIdx, row := range rows {
		values := make([]models.Value, len(row))
		for colIdx, cellValue := range row {
			if strings.TrimSpace(cellValue) == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheetName, cell)
			if err != nil {
				return nil, err
			}
			values[colIdx] = parseValue(cellValue, cellType)
		}
		result[rowIdx] = values
	}

	return result, nil
}

// parseValue converts a raw cell value according to its stored type.
// Numeric cells become int64 or float64, boolean cells become bool, and every
// other cell is returned as the original string.
func parseValue(s string, cellType excelize.CellType) interface{} {
	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	case excelize.CellTypeBool:
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return s
}
