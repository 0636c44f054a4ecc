// Package roster reads trainee name lists from course spreadsheets.
package roster

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/layout"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/locate"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/session"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/workbook"
)

// Roster is the list of trainee names read from a sheet.
type Roster struct {
	// Names holds the trainee names in sheet order, trimmed and without blanks.
	Names []string `json:"names"`
	// Sheet is the sheet the names were read from.
	Sheet string `json:"sheet"`
	// Column and FirstRow locate the first name cell.
	Column   int `json:"column"`
	FirstRow int `json:"first_row"`
	// Header is the header text found, empty when the positional fallback was used.
	Header string `json:"header,omitempty"`
}

// Read finds the name column by header label and reads the names below it.
// When no label is found in the header region the layout's fixed column and row are used.
func Read(wb *workbook.Workbook, l layout.RosterLayout) (*Roster, error) {
	sheet, err := wb.ResolveSheet(l.Sheet)
	if err != nil {
		return nil, err
	}

	r := &Roster{Sheet: sheet, Column: l.FallbackColumn, FirstRow: l.FallbackRow}
	for _, label := range l.Labels {
		m, ok, err := locate.FindText(wb, sheet, l.HeaderRegion, locate.Query{Text: label})
		if err != nil {
			return nil, err
		}
		if ok {
			r.Column, r.FirstRow, r.Header = m.Col, m.Row+1, m.Text
			break
		}
	}
	if r.Header == "" {
		log.WithFields(log.Fields{
			"book":   wb.Name(),
			"sheet":  sheet,
			"column": r.Column,
			"row":    r.FirstRow,
		}).Debug("no name header found, using fixed roster position")
	}

	maxRows := l.MaxRows
	if maxRows <= 0 {
		maxRows = layout.DefaultMaxTrainees
	}
	for row := r.FirstRow; row < r.FirstRow+maxRows; row++ {
		v, err := wb.Get(models.Coord{Sheet: sheet, Row: row, Col: r.Column})
		if err != nil {
			return nil, err
		}
		if name := strings.TrimSpace(v); name != "" {
			r.Names = append(r.Names, name)
		}
	}
	return r, nil
}

// Table returns the roster as a one-column table keyed by session.NameColumn.
func (r *Roster) Table(name string) *models.Table {
	records := make([][]models.Value, len(r.Names))
	for i, n := range r.Names {
		records[i] = []models.Value{n}
	}
	return models.NewTable(name, []string{session.NameColumn}, records)
}
