package export

import (
	"path/filepath"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/layout"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/locate"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/session"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/workbook"
)

// File is one generated document.
type File struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
	// Missing lists criteria whose label was not found on the form.
	Missing []string `json:"missing,omitempty"`
}

// FillRatingForms fills one copy of the rating form template per recorded trainee.
// Each copy is loaded fresh from template so no trainee's marks leak into another's form.
func FillRatingForms(template []byte, name string, l layout.RatingLayout, b *session.Book) ([]File, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	files := make([]File, 0, b.Len())
	for _, e := range b.Evaluations() {
		f, err := fillRatingForm(template, name, l, e)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func fillRatingForm(template []byte, name string, l layout.RatingLayout, e models.Evaluation) (File, error) {
	wb, err := workbook.OpenBytes(name, template)
	if err != nil {
		return File{}, err
	}
	defer wb.Close()

	sheet, err := wb.ResolveSheet(l.Sheet)
	if err != nil {
		return File{}, err
	}
	logger := log.WithFields(log.Fields{"book": name, "sheet": sheet, "trainee": e.Trainee, "macros": wb.MacroEnabled()})

	_, ok, err := locate.WriteRelative(wb, sheet, l.NameRegion, l.Name, l.NameOffset[0], l.NameOffset[1], e.Trainee)
	if err != nil {
		return File{}, err
	}
	if !ok {
		at := l.NameFallback
		at.Sheet = sheet
		logger.Debugf("name label not found, writing name at %s", at)
		if err := wb.Set(at, e.Trainee); err != nil {
			return File{}, err
		}
	}

	found, err := locate.FindSentinels(wb, sheet, l.SentinelRegion, layout.RatingScale...)
	if err != nil {
		return File{}, err
	}
	defaults := make(map[float64]models.Coord, len(l.SentinelColumns))
	for v, col := range l.SentinelColumns {
		defaults[float64(v)] = models.Coord{Sheet: sheet, Col: col}
	}
	columns, fellBack := locate.ResolveSentinels(found, defaults, layout.RatingScale)
	if len(fellBack) > 0 {
		logger.WithField("ratings", fellBack).Debug("rating header not found, using default columns")
	}

	out := File{Name: formName(name, e.Trainee)}
	for _, c := range l.Criteria {
		v, ok := e.Value(c.Name)
		if !ok {
			continue
		}
		col, ok := columns[v]
		if !ok {
			out.Missing = append(out.Missing, c.Name)
			logger.WithField("criterion", c.Name).Warnf("rating %v has no column", v)
			continue
		}
		label := c.Label
		if label == "" {
			label = c.Name
		}
		m, ok, err := locate.FindText(wb, sheet, l.CriteriaRegion, locate.Query{Text: label, PrefixLen: l.LabelPrefix})
		if err != nil {
			return File{}, err
		}
		if !ok {
			out.Missing = append(out.Missing, c.Name)
			logger.WithField("criterion", c.Name).Warn("criterion label not found on form")
			continue
		}
		if err := wb.Set(models.Coord{Sheet: sheet, Row: m.Row, Col: col.Col}, l.Mark); err != nil {
			return File{}, err
		}
	}

	if out.Data, err = wb.Bytes(); err != nil {
		return File{}, err
	}
	return out, nil
}

// formName derives the file name of a trainee's form from the template name.
func formName(template, trainee string) string {
	ext := filepath.Ext(template)
	if ext == "" {
		ext = ".xlsx"
	}
	base := strings.TrimSuffix(filepath.Base(template), filepath.Ext(template))
	return base + "_" + sanitize(trainee) + ext
}

func sanitize(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "formando"
	}
	return out
}
