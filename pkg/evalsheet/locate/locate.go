// Package locate finds labelled cells in loosely structured spreadsheet templates.
//
// Every search scans a bounded region row by row, left to right, and returns the first
// cell that matches. Not finding anything is a normal result, reported through the
// boolean return; callers pick their own fallback for each search site.
package locate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/parser"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/workbook"
)

// ErrInvalidRegion is returned when no usable scan region is available.
var ErrInvalidRegion = errors.New("invalid scan region")

// Query is a text search. The cell matches when its trimmed value contains the first
// PrefixLen characters of the trimmed Text. A PrefixLen of zero or less uses all of Text.
// Exact requires the trimmed cell to equal the fragment instead.
type Query struct {
	Text      string `json:"text" mapstructure:"text"`
	PrefixLen int    `json:"prefix_len" mapstructure:"prefix_len"`
	Exact     bool   `json:"exact,omitempty" mapstructure:"exact"`
}

// Fragment returns the text actually searched for.
func (q Query) Fragment() string {
	text := strings.TrimSpace(q.Text)
	if q.PrefixLen <= 0 || utf8.RuneCountInString(text) <= q.PrefixLen {
		return text
	}
	return strings.TrimSpace(string([]rune(text)[:q.PrefixLen]))
}

// Matches reports whether a cell value satisfies the query.
func (q Query) Matches(cell string) bool {
	frag := q.Fragment()
	if frag == "" {
		return false
	}
	if q.Exact {
		return strings.TrimSpace(cell) == frag
	}
	return strings.Contains(strings.TrimSpace(cell), frag)
}

// FindText returns the first cell of region on the selected sheet containing the query
// fragment. A zero region falls back to the sheet's print area.
func FindText(wb *workbook.Workbook, sheet string, region models.Region, q Query) (models.LabelMatch, bool, error) {
	return scan(wb, sheet, region, q.Matches)
}

// FindValue returns the first cell of region holding the number v.
func FindValue(wb *workbook.Workbook, sheet string, region models.Region, v float64) (models.LabelMatch, bool, error) {
	return scan(wb, sheet, region, func(cell string) bool {
		n, ok := models.Number(cell)
		return ok && n == v
	})
}

// FindSentinels looks up each value independently and returns the coordinates found.
// Values that were not found are absent from the result.
func FindSentinels(wb *workbook.Workbook, sheet string, region models.Region, values ...float64) (map[float64]models.Coord, error) {
	found := make(map[float64]models.Coord, len(values))
	for _, v := range values {
		m, ok, err := FindValue(wb, sheet, region, v)
		if err != nil {
			return nil, err
		}
		if ok {
			found[v] = m.Coord
		}
	}
	return found, nil
}

// ResolveSentinels resolves every value in order, taking the default when it was not found.
// fellBack lists the values that used their default.
func ResolveSentinels(found, defaults map[float64]models.Coord, order []float64) (resolved map[float64]models.Coord, fellBack []float64) {
	resolved = make(map[float64]models.Coord, len(order))
	for _, v := range order {
		if c, ok := found[v]; ok {
			resolved[v] = c
			continue
		}
		if c, ok := defaults[v]; ok {
			resolved[v] = c
			fellBack = append(fellBack, v)
		}
	}
	return resolved, fellBack
}

// WriteRelative finds the query and writes v at the match moved by (dRow, dCol).
// The returned coordinate is the written cell; ok is false when the label was not found.
func WriteRelative(wb *workbook.Workbook, sheet string, region models.Region, q Query, dRow, dCol int, v models.Value) (models.Coord, bool, error) {
	m, ok, err := FindText(wb, sheet, region, q)
	if err != nil || !ok {
		return models.Coord{}, false, err
	}
	target := m.Offset(dRow, dCol)
	if target.Row < 1 || target.Col < 1 {
		return models.Coord{}, false, fmt.Errorf("offset (%d,%d) from %s leaves the sheet", dRow, dCol, m.Coord)
	}
	if err := wb.Set(target, v); err != nil {
		return models.Coord{}, false, err
	}
	return target, true, nil
}

// scan walks region row-major and stops at the first cell accepted by match.
func scan(wb *workbook.Workbook, selector string, region models.Region, match func(string) bool) (models.LabelMatch, bool, error) {
	sheet, err := wb.ResolveSheet(selector)
	if err != nil {
		return models.LabelMatch{}, false, err
	}
	if region.IsZero() {
		area, ok := parser.PrintArea(wb.File(), sheet)
		if !ok {
			return models.LabelMatch{}, false, fmt.Errorf("%w: no region given and sheet %q has no print area", ErrInvalidRegion, sheet)
		}
		region = area
	}
	if !region.Valid() {
		return models.LabelMatch{}, false, fmt.Errorf("%w: %+v", ErrInvalidRegion, region)
	}

	for row := region.R1; row < region.R2; row++ {
		for col := region.C1; col < region.C2; col++ {
			c := models.Coord{Sheet: sheet, Row: row, Col: col}
			value, err := wb.Get(c)
			if err != nil {
				return models.LabelMatch{}, false, err
			}
			if value != "" && match(value) {
				return models.LabelMatch{Coord: c, Text: strings.TrimSpace(value)}, true, nil
			}
		}
	}
	return models.LabelMatch{}, false, nil
}
