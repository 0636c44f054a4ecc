package models

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Coord is a cell coordinate on a named sheet.
type Coord struct {
	// Sheet is the sheet name owning the cell.
	Sheet string `json:"sheet"`
	// Row is the row index (1-based).
	Row int `json:"row"`
	// Col is the column index (1-based).
	Col int `json:"col"`
}

// Cell returns the A1 style name of the coordinate, or "" when it is out of range.
func (c Coord) Cell() string {
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return ""
	}
	return name
}

// Offset returns the coordinate moved by dRow rows and dCol columns.
func (c Coord) Offset(dRow, dCol int) Coord {
	return Coord{Sheet: c.Sheet, Row: c.Row + dRow, Col: c.Col + dCol}
}

func (c Coord) String() string {
	return fmt.Sprintf("%s!%s", c.Sheet, c.Cell())
}

// Region is a half-open rectangle of cells: rows [R1, R2) and columns [C1, C2), 1-based.
type Region struct {
	R1 int `json:"r1" mapstructure:"r1"`
	R2 int `json:"r2" mapstructure:"r2"`
	C1 int `json:"c1" mapstructure:"c1"`
	C2 int `json:"c2" mapstructure:"c2"`
}

// Rows builds a region covering rows [r1, r2) and columns [c1, c2).
func Rows(r1, r2, c1, c2 int) Region {
	return Region{R1: r1, R2: r2, C1: c1, C2: c2}
}

// Valid reports whether the region is non-empty and starts inside the sheet.
func (r Region) Valid() bool {
	return r.R1 >= 1 && r.C1 >= 1 && r.R2 > r.R1 && r.C2 > r.C1
}

// IsZero reports whether the region was left unset.
func (r Region) IsZero() bool {
	return r == Region{}
}

// Contains reports whether the cell (row, col) lies in the region.
func (r Region) Contains(row, col int) bool {
	return row >= r.R1 && row < r.R2 && col >= r.C1 && col < r.C2
}

// ParseRange converts an inclusive A1 range such as "$A$1:$D$10" to a region.
func ParseRange(ref string) (Region, error) {
	parts := strings.Split(strings.ReplaceAll(ref, "$", ""), ":")
	if len(parts) != 2 {
		return Region{}, fmt.Errorf("invalid range %q", ref)
	}
	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Region{}, err
	}
	c2, r2, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return Region{}, err
	}
	return Region{R1: r1, R2: r2 + 1, C1: c1, C2: c2 + 1}, nil
}

// LabelMatch is a cell found by a text or sentinel search.
type LabelMatch struct {
	Coord
	// Text is the trimmed cell content that matched.
	Text string `json:"text"`
}
