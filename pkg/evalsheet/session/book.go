// Package session holds the evaluations recorded during one working session.
package session

import (
	"fmt"
	"strings"

	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
)

// Column names used when a book is exported as a table.
const (
	NameColumn    = "Nome"
	AverageColumn = "Média"
)

// Book maps trainee names to their evaluation, in recording order.
// A Book belongs to one session and is not safe for concurrent use.
type Book struct {
	kind   evalsheet.Kind
	order  []string
	byName map[string]models.Evaluation
}

// NewBook creates an empty book for the given assessment kind.
func NewBook(kind evalsheet.Kind) *Book {
	if kind == "" {
		kind = evalsheet.KindScore
	}
	return &Book{kind: kind, byName: make(map[string]models.Evaluation)}
}

// Kind returns the assessment kind of the book.
func (b *Book) Kind() evalsheet.Kind {
	return b.kind
}

// Record validates e and stores it, replacing any earlier evaluation of the same trainee.
// A rejected evaluation leaves the book unchanged.
func (b *Book) Record(e models.Evaluation) error {
	e.Trainee = strings.TrimSpace(e.Trainee)
	if err := b.check(e); err != nil {
		return err
	}
	if _, ok := b.byName[e.Trainee]; !ok {
		b.order = append(b.order, e.Trainee)
	}
	b.byName[e.Trainee] = e
	return nil
}

func (b *Book) check(e models.Evaluation) error {
	if err := e.Validate(); err != nil {
		return err
	}
	switch b.kind {
	case evalsheet.KindScore:
		if len(e.Ratings) > 0 {
			return fmt.Errorf("evaluation for %q: ratings given in a score book", e.Trainee)
		}
	case evalsheet.KindRating:
		if len(e.Scores) > 0 {
			return fmt.Errorf("evaluation for %q: scores given in a rating book", e.Trainee)
		}
	}
	return nil
}

// Get returns the evaluation of a trainee.
func (b *Book) Get(name string) (models.Evaluation, bool) {
	e, ok := b.byName[strings.TrimSpace(name)]
	return e, ok
}

// Remove deletes a trainee's evaluation and reports whether it existed.
func (b *Book) Remove(name string) bool {
	name = strings.TrimSpace(name)
	if _, ok := b.byName[name]; !ok {
		return false
	}
	delete(b.byName, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of recorded trainees.
func (b *Book) Len() int {
	return len(b.order)
}

// Names returns the recorded trainee names in recording order.
func (b *Book) Names() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Evaluations returns the recorded evaluations in recording order.
func (b *Book) Evaluations() []models.Evaluation {
	out := make([]models.Evaluation, 0, len(b.order))
	for _, n := range b.order {
		out = append(out, b.byName[n])
	}
	return out
}

// Criteria returns every criterion recorded for any trainee, in first-seen order.
func (b *Book) Criteria() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range b.Evaluations() {
		for _, c := range e.Criteria() {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// Table exports the book with one row per trainee: name, one column per criterion and,
// when withAverage is set, the average over criteria.
func (b *Book) Table(name string, criteria []string, withAverage bool) *models.Table {
	if len(criteria) == 0 {
		criteria = b.Criteria()
	}
	header := append([]string{NameColumn}, criteria...)
	if withAverage {
		header = append(header, AverageColumn)
	}

	records := make([][]models.Value, 0, b.Len())
	for _, e := range b.Evaluations() {
		rec := make([]models.Value, 0, len(header))
		rec = append(rec, e.Trainee)
		for _, c := range criteria {
			if v, ok := e.Value(c); ok {
				rec = append(rec, v)
			} else {
				rec = append(rec, nil)
			}
		}
		if withAverage {
			if avg, ok := e.Average(criteria); ok {
				rec = append(rec, avg)
			} else {
				rec = append(rec, nil)
			}
		}
		records = append(records, rec)
	}
	return models.NewTable(name, header, records)
}

// LoadTable records one evaluation per row of t. Rows without a name are skipped and
// returned. When criteria is empty every column other than the name and average is a
// criterion. Either every row is recorded or, on error, the book is left unchanged.
func (b *Book) LoadTable(t *models.Table, nameColumn string, criteria []string) (skipped []int, err error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if nameColumn == "" {
		nameColumn = NameColumn
	}
	names, ok := t.Column(nameColumn)
	if !ok {
		return nil, evalsheet.NewKeyColumnError(t.Name, nameColumn)
	}
	if len(criteria) == 0 {
		for _, h := range t.Header() {
			if h != nameColumn && h != AverageColumn {
				criteria = append(criteria, h)
			}
		}
	}
	for _, c := range criteria {
		if !t.HasColumn(c) {
			return nil, evalsheet.NewMalformedTableError(t.Name, fmt.Sprintf("no column for criterion %q", c))
		}
	}

	staged := NewBook(b.kind)
	for r, nv := range names.Values {
		if models.IsMissing(nv) {
			skipped = append(skipped, r)
			continue
		}
		e := models.Evaluation{Trainee: models.Text(nv)}
		row := t.Row(r)
		for _, c := range criteria {
			v := row[c]
			if models.IsMissing(v) {
				continue
			}
			n, ok := models.Number(v)
			if !ok {
				return nil, evalsheet.NewMalformedTableError(t.Name,
					fmt.Sprintf("row %d: %q is not a number for %q", r+1, models.Text(v), c))
			}
			if b.kind == evalsheet.KindRating {
				if e.Ratings == nil {
					e.Ratings = make(map[string]int)
				}
				if n != float64(int(n)) {
					return nil, evalsheet.NewMalformedTableError(t.Name,
						fmt.Sprintf("row %d: rating %v for %q is not a whole number", r+1, n, c))
				}
				e.Ratings[c] = int(n)
			} else {
				if e.Scores == nil {
					e.Scores = make(map[string]float64)
				}
				e.Scores[c] = n
			}
		}
		if err := staged.Record(e); err != nil {
			return nil, evalsheet.NewMalformedTableError(t.Name, fmt.Sprintf("row %d: %v", r+1, err))
		}
	}

	for _, e := range staged.Evaluations() {
		if err := b.Record(e); err != nil {
			return nil, err
		}
	}
	return skipped, nil
}
