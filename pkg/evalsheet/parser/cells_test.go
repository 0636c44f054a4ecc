package parser

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtractCells(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Nome")
	f.SetCellValue(sheetName, "B1", "Nota")
	f.SetCellValue(sheetName, "A2", "Ana")
	f.SetCellValue(sheetName, "B2", 14)
	f.SetCellValue(sheetName, "A3", "Bruno")
	f.SetCellValue(sheetName, "B3", 12.5)

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	rows, err := ExtractCells(f2, sheetName)
	if err != nil {
		t.Fatalf("ExtractCells failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Nome" {
		t.Errorf("Expected 'Nome', got %v", rows[0][0])
	}
	if rows[1][1] != int64(14) {
		t.Errorf("Expected int64(14), got %v (type: %T)", rows[1][1], rows[1][1])
	}
	if rows[2][1] != 12.5 {
		t.Errorf("Expected 12.5, got %v", rows[2][1])
	}

	if _, err := ExtractCells(f2, "Missing"); err == nil {
		t.Error("Expected an error for a missing sheet")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		cellType excelize.CellType
		expected interface{}
	}{
		{"123", excelize.CellTypeUnset, int64(123)},
		{"123.45", excelize.CellTypeNumber, 123.45},
		{"-100", excelize.CellTypeUnset, int64(-100)},
		{"1", excelize.CellTypeBool, true},
		{"hello", excelize.CellTypeUnset, "hello"},
		{"NaN", excelize.CellTypeUnset, "NaN"},
		{"007", excelize.CellTypeSharedString, "007"},
		{"1e3", excelize.CellTypeInlineString, "1e3"},
		{"+351912345678", excelize.CellTypeSharedString, "+351912345678"},
		{"", excelize.CellTypeUnset, ""},
	}

	for _, tt := range tests {
		result := parseValue(tt.input, tt.cellType)
		if result != tt.expected {
			t.Errorf("parseValue(%q, %v) = %v (type: %T), expected %v (type: %T)",
				tt.input, tt.cellType, result, result, tt.expected, tt.expected)
		}
	}
}
