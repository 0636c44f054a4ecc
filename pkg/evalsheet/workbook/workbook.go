// Package workbook wraps a spreadsheet document that is edited in place and saved back.
package workbook

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/parser"
	"github.com/xuri/excelize/v2"
)

// Workbook is an opaque template document addressed by coordinate.
// Cells that are never Set keep their content and style; package parts the
// spreadsheet library does not model (such as a VBA project) are written back unchanged.
type Workbook struct {
	name string
	file *excelize.File
	orig parser.PackageInfo
}

// New creates an empty workbook with one sheet.
func New(name string) *Workbook {
	return &Workbook{name: name, file: excelize.NewFile()}
}

// Open loads a workbook from r. name identifies it in errors.
func Open(name string, r io.Reader) (*Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, evalsheet.NewProcessingError(name, err)
	}
	return OpenBytes(name, data)
}

// OpenBytes loads a workbook from its serialized bytes.
func OpenBytes(name string, data []byte) (*Workbook, error) {
	info, err := parser.InspectPackage(data)
	if err != nil {
		return nil, evalsheet.NewProcessingError(name, fmt.Errorf("not a spreadsheet package: %w", err))
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, evalsheet.NewProcessingError(name, err)
	}
	return &Workbook{name: name, file: f, orig: info}, nil
}

// OpenFile loads a workbook from disk.
func OpenFile(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, evalsheet.NewProcessingError(filepath.Base(path), err)
	}
	return OpenBytes(filepath.Base(path), data)
}

// Name returns the name the workbook was opened with.
func (w *Workbook) Name() string {
	return w.name
}

// File exposes the underlying document for read-only helpers.
func (w *Workbook) File() *excelize.File {
	return w.file
}

// MacroEnabled reports whether the loaded document carried a VBA project.
func (w *Workbook) MacroEnabled() bool {
	return w.orig.HasVBA
}

// Sheets lists the sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

// ResolveSheet selects a sheet by name substring; an empty selector selects the active sheet.
func (w *Workbook) ResolveSheet(selector string) (string, error) {
	return parser.ResolveSheet(w.file, w.name, selector)
}

// Get returns the raw text of a cell.
func (w *Workbook) Get(c models.Coord) (string, error) {
	cell, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return "", err
	}
	return w.file.GetCellValue(c.Sheet, cell, excelize.Options{RawCellValue: true})
}

// Set writes a value into a cell, keeping the cell's existing style.
func (w *Workbook) Set(c models.Coord, v models.Value) error {
	cell, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return err
	}
	if v == nil {
		return w.file.SetCellValue(c.Sheet, cell, "")
	}
	return w.file.SetCellValue(c.Sheet, cell, v)
}

// Bytes serializes the workbook. A macro project present when the workbook was opened
// must come out byte-identical, otherwise ErrMacroPayloadChanged is returned.
func (w *Workbook) Bytes() ([]byte, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, evalsheet.NewProcessingError(w.name, err)
	}
	data := buf.Bytes()
	if !w.orig.HasVBA {
		return data, nil
	}
	info, err := parser.InspectPackage(data)
	if err != nil {
		return nil, evalsheet.NewProcessingError(w.name, err)
	}
	if info.VBADigest != w.orig.VBADigest {
		return nil, evalsheet.NewProcessingError(w.name, evalsheet.ErrMacroPayloadChanged)
	}
	return data, nil
}

// Close releases the document.
func (w *Workbook) Close() error {
	return w.file.Close()
}
