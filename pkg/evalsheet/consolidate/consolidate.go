// Package consolidate runs the merge of uploaded spreadsheets end to end: read each file as a
// table, join the extras onto the roster and write the consolidated workbook.
package consolidate

import (
	"errors"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/export"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/join"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/parser"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/workbook"
)

// Source is one uploaded spreadsheet.
type Source struct {
	Name   string
	Reader io.Reader
}

// Request describes one merge.
type Request struct {
	Primary Source
	Extras  []Source
	// Key is the column joined on.
	Key string
	// Sheet selects the sheet read from every file; empty means the active sheet.
	Sheet string
	// HeaderRow is the 1-based header row; zero detects it.
	HeaderRow int
}

// Result is a completed merge.
type Result struct {
	Table *models.Table
	// Duplicates maps an extra file to the keys it repeats. Only the first row of each was used.
	Duplicates map[string][]string
	// Empty is set when the roster had no rows; Table then holds only the header.
	Empty bool
}

// Load reads the selected sheet of src as a table named after the file.
func Load(src Source, sheet string, headerRow int) (*models.Table, error) {
	wb, err := workbook.Open(src.Name, src.Reader)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	name, err := wb.ResolveSheet(sheet)
	if err != nil {
		return nil, err
	}
	t, err := parser.ReadTable(wb.File(), name, src.Name, parser.TableOptions{HeaderRow: headerRow})
	if err != nil {
		return nil, evalsheet.NewProcessingError(src.Name, err)
	}
	log.WithFields(log.Fields{
		"file":    src.Name,
		"sheet":   name,
		"rows":    t.NumRows(),
		"columns": len(t.Columns),
	}).Debug("table loaded")
	return t, nil
}

// Run loads every file and merges the extras onto the primary. Nothing is returned unless
// every file was read and joined.
func Run(req Request) (*Result, error) {
	primary, err := Load(req.Primary, req.Sheet, req.HeaderRow)
	if err != nil {
		return nil, err
	}
	extras := make([]*models.Table, 0, len(req.Extras))
	for _, src := range req.Extras {
		t, err := Load(src, req.Sheet, req.HeaderRow)
		if err != nil {
			return nil, err
		}
		extras = append(extras, t)
	}

	res := &Result{Duplicates: make(map[string][]string)}
	res.Table, err = join.Merge(primary, extras, req.Key)
	switch {
	case errors.Is(err, evalsheet.ErrEmptyPrimaryTable):
		res.Empty = true
		log.WithField("file", req.Primary.Name).Warn("primary table has no rows")
	case err != nil:
		return nil, err
	}

	for _, t := range extras {
		if dups := join.Duplicates(t, req.Key); len(dups) > 0 {
			res.Duplicates[t.Name] = dups
			log.WithFields(log.Fields{"file": t.Name, "keys": dups}).Warn("repeated keys, first row used")
		}
	}
	return res, nil
}

// Preview returns the leading rows of the merged table.
func (r *Result) Preview(opts evalsheet.Options) *models.Table {
	return join.Preview(r.Table, opts.PreviewLimit())
}

// Workbook serializes the merged table as a new workbook.
func (r *Result) Workbook(opts evalsheet.Options) ([]byte, error) {
	return export.WriteTable(r.Table, opts)
}
