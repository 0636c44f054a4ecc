package export

import (
	log "github.com/sirupsen/logrus"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/layout"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/locate"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/session"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/workbook"
)

// GridResult reports what FillGrid wrote.
type GridResult struct {
	// Sheet is the sheet that was filled.
	Sheet string `json:"sheet"`
	// Placed maps each trainee written to its row.
	Placed map[string]int `json:"placed"`
	// Unplaced lists trainees whose name was not found in the name column.
	Unplaced []string `json:"unplaced,omitempty"`
	// Fallbacks lists the labels that were not found and used their fixed column.
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// FillGrid writes every evaluation of b into the grid template wb. Columns are located by
// header label and fall back to the layout's fixed columns; each trainee's row is the row
// whose name cell equals the trainee name. Trainees with no row are reported, not added.
func FillGrid(wb *workbook.Workbook, l layout.GridLayout, b *session.Book, opts evalsheet.Options) (*GridResult, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	sheet, err := wb.ResolveSheet(l.Sheet)
	if err != nil {
		return nil, err
	}
	res := &GridResult{Sheet: sheet, Placed: make(map[string]int)}
	logger := log.WithFields(log.Fields{"book": wb.Name(), "sheet": sheet})

	column := func(q locate.Query, fallback int) (int, int, error) {
		m, ok, err := locate.FindText(wb, sheet, l.HeaderRegion, q)
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			res.Fallbacks = append(res.Fallbacks, q.Text)
			logger.WithField("label", q.Text).Debugf("header not found, using column %d", fallback)
			return fallback, 0, nil
		}
		return m.Col, m.Row, nil
	}

	nameCol, headerRow, err := column(locate.Query{Text: l.NameLabel}, l.NameColumn)
	if err != nil {
		return nil, err
	}
	// Names start right below a found header; the fixed first row applies only without one.
	grid := l
	if headerRow > 0 {
		grid.FirstRow = headerRow + 1
	}

	cols := make([]int, len(l.Fields))
	criteria := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		if cols[i], _, err = column(f.Query(), f.FallbackColumn); err != nil {
			return nil, err
		}
		criteria[i] = f.Criterion
	}

	avgCol := 0
	if opts.ShouldIncludeAverage() {
		if avgCol, _, err = column(l.Average.Query(), l.Average.FallbackColumn); err != nil {
			return nil, err
		}
	}

	rows := grid.TraineeRegion(nameCol)
	for _, e := range b.Evaluations() {
		m, ok, err := locate.FindText(wb, sheet, rows, locate.Query{Text: e.Trainee, Exact: true})
		if err != nil {
			return nil, err
		}
		if !ok {
			res.Unplaced = append(res.Unplaced, e.Trainee)
			logger.WithField("trainee", e.Trainee).Warn("trainee not found in grid")
			continue
		}
		for i, c := range criteria {
			v, ok := e.Value(c)
			if !ok {
				continue
			}
			if err := wb.Set(models.Coord{Sheet: sheet, Row: m.Row, Col: cols[i]}, v); err != nil {
				return nil, err
			}
		}
		if avgCol > 0 {
			if avg, ok := e.Average(criteria); ok {
				if err := wb.Set(models.Coord{Sheet: sheet, Row: m.Row, Col: avgCol}, avg); err != nil {
					return nil, err
				}
			}
		}
		res.Placed[e.Trainee] = m.Row
	}
	return res, nil
}
