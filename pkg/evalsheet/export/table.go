// Package export turns merged tables and recorded evaluations into output documents.
package export

import (
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/xuri/excelize/v2"
)

// WriteTable writes t to a new workbook: a bold header row followed by one row per record.
// A table without rows still produces a sheet holding the header.
func WriteTable(t *models.Table, opts evalsheet.Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.SheetName()
	if sheet != evalsheet.DefaultSheet {
		if err := f.SetSheetName(evalsheet.DefaultSheet, sheet); err != nil {
			return nil, err
		}
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if len(header) > 0 {
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return nil, err
		}
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, err
		}
	}

	for r := 0; r < t.NumRows(); r++ {
		rec := t.Record(r)
		row := make([]interface{}, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
