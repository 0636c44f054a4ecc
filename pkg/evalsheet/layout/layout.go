// Package layout describes where things live in each kind of template.
//
// Positional defaults (the name column, the first trainee row, the final-average column,
// the rating columns) are declared here once; every search site reads them from a layout
// instead of carrying its own offsets.
package layout

import (
	"fmt"

	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/locate"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
)

// Positional conventions of the course score grids.
const (
	// DefaultNameColumn is the column holding trainee names in grid templates (column K).
	DefaultNameColumn = 11
	// DefaultFirstRow is the first trainee row in grid templates.
	DefaultFirstRow = 13
	// DefaultAverageColumn is the final-average column in grid templates (column BF).
	DefaultAverageColumn = 58
	// DefaultMaxTrainees bounds the trainee rows scanned below DefaultFirstRow.
	DefaultMaxTrainees = 200
)

// Rating scale values, in the order their columns appear on rating forms.
var RatingScale = []float64{1, 3, 5}

// RosterLayout locates the trainee names of a roster sheet.
type RosterLayout struct {
	// Sheet selects the roster sheet; empty means the active sheet.
	Sheet string `mapstructure:"sheet"`
	// Labels are the header texts accepted for the name column, tried in order.
	Labels []string `mapstructure:"labels"`
	// HeaderRegion bounds the search for a name header.
	HeaderRegion models.Region `mapstructure:"header_region"`
	// FallbackColumn and FallbackRow give the name column and first name row when no
	// header is found.
	FallbackColumn int `mapstructure:"fallback_column"`
	FallbackRow    int `mapstructure:"fallback_row"`
	// MaxRows bounds the rows read below the header.
	MaxRows int `mapstructure:"max_rows"`
}

// FieldLayout places one value column of a grid template.
type FieldLayout struct {
	// Criterion is the evaluation criterion written in this column. Empty for the average.
	Criterion string `mapstructure:"criterion"`
	// Label is the header text searched for in the header region.
	Label string `mapstructure:"label"`
	// PrefixLen truncates Label before searching; see locate.Query.
	PrefixLen int `mapstructure:"prefix_len"`
	// FallbackColumn is used when the label is not found.
	FallbackColumn int `mapstructure:"fallback_column"`
}

// Query returns the header search for the field.
func (f FieldLayout) Query() locate.Query {
	return locate.Query{Text: f.Label, PrefixLen: f.PrefixLen}
}

// GridLayout describes a score grid template: one row per trainee, one column per criterion.
type GridLayout struct {
	Sheet string `mapstructure:"sheet"`
	// NameLabel is searched for in HeaderRegion to find the name column.
	NameLabel    string        `mapstructure:"name_label"`
	NameColumn   int           `mapstructure:"name_column"`
	FirstRow     int           `mapstructure:"first_row"`
	MaxTrainees  int           `mapstructure:"max_trainees"`
	HeaderRegion models.Region `mapstructure:"header_region"`
	Fields       []FieldLayout `mapstructure:"fields"`
	Average      FieldLayout   `mapstructure:"average"`
}

// TraineeRegion returns the rows and column scanned for trainee names.
func (g GridLayout) TraineeRegion(nameCol int) models.Region {
	return models.Rows(g.FirstRow, g.FirstRow+g.MaxTrainees, nameCol, nameCol+1)
}

// RatingLayout describes a one-trainee rating form with 1/3/5 columns.
type RatingLayout struct {
	Sheet string `mapstructure:"sheet"`
	// Name is the label next to which the trainee name is written.
	Name locate.Query `mapstructure:"name"`
	// NameOffset is the (row, column) delta from the name label to the value cell.
	NameOffset [2]int `mapstructure:"name_offset"`
	// NameFallback is written when the name label is missing.
	NameFallback models.Coord `mapstructure:"name_fallback"`
	// NameRegion bounds the name label search.
	NameRegion models.Region `mapstructure:"name_region"`
	// SentinelRegion bounds the search for the 1, 3 and 5 header cells.
	SentinelRegion models.Region `mapstructure:"sentinel_region"`
	// SentinelColumns are the columns used for each rating when its sentinel is missing.
	SentinelColumns map[int]int `mapstructure:"sentinel_columns"`
	// CriteriaRegion bounds the criterion label search.
	CriteriaRegion models.Region `mapstructure:"criteria_region"`
	// LabelPrefix truncates criterion labels before searching.
	LabelPrefix int `mapstructure:"label_prefix"`
	// Criteria maps criterion to its label text on the form, in form order.
	Criteria []Criterion `mapstructure:"criteria"`
	// Mark is written in the chosen rating column.
	Mark string `mapstructure:"mark"`
}

// Criterion pairs an evaluation criterion with its label on a form.
type Criterion struct {
	Name  string `mapstructure:"name"`
	Label string `mapstructure:"label"`
}

// DefaultRoster returns the roster layout of the course name lists.
func DefaultRoster() RosterLayout {
	return RosterLayout{
		Labels:         []string{"Nome", "Name", "Formando"},
		HeaderRegion:   models.Rows(1, DefaultFirstRow, 1, 30),
		FallbackColumn: DefaultNameColumn,
		FallbackRow:    DefaultFirstRow,
		MaxRows:        DefaultMaxTrainees,
	}
}

// DefaultGrid returns the grid layout used by the module score sheets.
func DefaultGrid(criteria []string) GridLayout {
	g := GridLayout{
		NameLabel:    "Nome",
		NameColumn:   DefaultNameColumn,
		FirstRow:     DefaultFirstRow,
		MaxTrainees:  DefaultMaxTrainees,
		HeaderRegion: models.Rows(1, DefaultFirstRow, 1, DefaultAverageColumn+1),
		Average: FieldLayout{
			Label:          "Média",
			FallbackColumn: DefaultAverageColumn,
		},
	}
	for i, c := range criteria {
		g.Fields = append(g.Fields, FieldLayout{
			Criterion:      c,
			Label:          c,
			PrefixLen:      20,
			FallbackColumn: DefaultNameColumn + 1 + i,
		})
	}
	return g
}

// DefaultRating returns the rating form layout.
func DefaultRating(criteria []Criterion) RatingLayout {
	return RatingLayout{
		Name:            locate.Query{Text: "Nome", PrefixLen: 20},
		NameOffset:      [2]int{0, 1},
		NameFallback:    models.Coord{Row: 6, Col: 3},
		NameRegion:      models.Rows(1, 15, 1, 12),
		SentinelRegion:  models.Rows(1, 15, 1, 20),
		SentinelColumns: map[int]int{1: 6, 3: 7, 5: 8},
		CriteriaRegion:  models.Rows(1, 80, 1, 6),
		LabelPrefix:     40,
		Criteria:        criteria,
		Mark:            "X",
	}
}

// Validate checks that every positional fallback is usable.
func (g GridLayout) Validate() error {
	if g.NameColumn < 1 || g.FirstRow < 1 || g.MaxTrainees < 1 {
		return fmt.Errorf("grid layout: name column %d, first row %d and max trainees %d must be positive",
			g.NameColumn, g.FirstRow, g.MaxTrainees)
	}
	if !g.HeaderRegion.Valid() {
		return fmt.Errorf("grid layout: invalid header region %+v", g.HeaderRegion)
	}
	for _, f := range g.Fields {
		if f.FallbackColumn < 1 {
			return fmt.Errorf("grid layout: field %q has no fallback column", f.Criterion)
		}
	}
	return nil
}

// Validate checks that every positional fallback is usable.
func (r RatingLayout) Validate() error {
	for _, v := range RatingScale {
		if r.SentinelColumns[int(v)] < 1 {
			return fmt.Errorf("rating layout: no default column for rating %v", v)
		}
	}
	if r.NameFallback.Row < 1 || r.NameFallback.Col < 1 {
		return fmt.Errorf("rating layout: invalid name fallback %+v", r.NameFallback)
	}
	for _, reg := range []models.Region{r.NameRegion, r.SentinelRegion, r.CriteriaRegion} {
		if !reg.Valid() {
			return fmt.Errorf("rating layout: invalid region %+v", reg)
		}
	}
	return nil
}
