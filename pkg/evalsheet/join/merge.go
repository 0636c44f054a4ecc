// Package join left-joins auxiliary tables onto a roster by a shared key column.
package join

import (
	"fmt"

	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
)

// NormalizeKey returns the text a key value is compared by: coerced to text and trimmed.
// Case is left untouched.
func NormalizeKey(v models.Value) string {
	return models.Text(v)
}

// Merge left-joins every auxiliary table onto primary by the key column.
//
// The result always has the primary's rows in the primary's order. Columns are added in
// auxiliary order; a column name already present is never overwritten. When an auxiliary table
// repeats a key the first row wins. A table lacking the key column fails the whole merge.
//
// An empty primary yields the merged header and an error wrapping ErrEmptyPrimaryTable;
// the returned table is still valid for export.
func Merge(primary *models.Table, aux []*models.Table, key string) (*models.Table, error) {
	if primary == nil {
		return nil, evalsheet.NewMalformedTableError("", "primary table is nil")
	}
	if err := primary.Validate(); err != nil {
		return nil, err
	}
	if !primary.HasColumn(key) {
		return nil, evalsheet.NewKeyColumnError(primary.Name, key)
	}
	// Check every auxiliary table before building anything so a failure leaves no partial result.
	for i, t := range aux {
		if t == nil {
			return nil, evalsheet.NewMalformedTableError(fmt.Sprintf("#%d", i+1), "auxiliary table is nil")
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if !t.HasColumn(key) {
			return nil, evalsheet.NewKeyColumnError(t.Name, key)
		}
	}

	result := &models.Table{Name: primary.Name, Columns: make([]models.Column, len(primary.Columns))}
	for i, c := range primary.Columns {
		vals := make([]models.Value, len(c.Values))
		copy(vals, c.Values)
		result.Columns[i] = models.Column{Name: c.Name, Values: vals}
	}

	keys, _ := result.Column(key)
	for _, t := range aux {
		addLeft(result, keys.Values, t, key)
	}

	if result.NumRows() == 0 {
		return result, fmt.Errorf("%w: %q", evalsheet.ErrEmptyPrimaryTable, primary.Name)
	}
	return result, nil
}

// addLeft appends t's new columns to result, aligned to the result's keys.
func addLeft(result *models.Table, keys []models.Value, t *models.Table, key string) {
	var add []int
	for i, c := range t.Columns {
		if c.Name == key || result.HasColumn(c.Name) {
			continue
		}
		add = append(add, i)
	}
	if len(add) == 0 {
		return
	}

	index := FirstRows(t, key)
	for _, ci := range add {
		src := t.Columns[ci]
		vals := make([]models.Value, len(keys))
		for r, k := range keys {
			if row, ok := index[NormalizeKey(k)]; ok && !models.IsMissing(k) {
				vals[r] = src.Values[row]
			}
		}
		result.Columns = append(result.Columns, models.Column{Name: src.Name, Values: vals})
	}
}

// FirstRows maps each normalized key of t to the first row holding it.
// Rows with a missing key are skipped.
func FirstRows(t *models.Table, key string) map[string]int {
	col, ok := t.Column(key)
	if !ok {
		return nil
	}
	index := make(map[string]int, len(col.Values))
	for r, v := range col.Values {
		if models.IsMissing(v) {
			continue
		}
		k := NormalizeKey(v)
		if _, dup := index[k]; !dup {
			index[k] = r
		}
	}
	return index
}

// Duplicates returns the normalized keys appearing more than once in t's key column, in
// first-seen order. Merge tolerates them; callers may warn about them.
func Duplicates(t *models.Table, key string) []string {
	col, ok := t.Column(key)
	if !ok {
		return nil
	}
	counts := make(map[string]int, len(col.Values))
	var order []string
	for _, v := range col.Values {
		if models.IsMissing(v) {
			continue
		}
		k := NormalizeKey(v)
		counts[k]++
		if counts[k] == 2 {
			order = append(order, k)
		}
	}
	return order
}

// Preview returns at most n leading rows of t.
func Preview(t *models.Table, n int) *models.Table {
	return t.Head(n)
}
