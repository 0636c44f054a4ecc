package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/session"
)

// CriterionStats summarises one criterion over the class.
type CriterionStats struct {
	Criterion string  `json:"criterion"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// ClassStats computes per-criterion statistics over every recorded evaluation.
// Criteria nobody was assessed on are left out.
func ClassStats(b *session.Book, criteria []string) []CriterionStats {
	if len(criteria) == 0 {
		criteria = b.Criteria()
	}
	var out []CriterionStats
	for _, c := range criteria {
		var data stats.Float64Data
		for _, e := range b.Evaluations() {
			if v, ok := e.Value(c); ok {
				data = append(data, v)
			}
		}
		if data.Len() == 0 {
			continue
		}
		s := CriterionStats{Criterion: c, Count: data.Len()}
		s.Mean, _ = stats.Mean(data)
		s.Mean, _ = stats.Round(s.Mean, 2)
		s.Median, _ = stats.Median(data)
		s.Min, _ = stats.Min(data)
		s.Max, _ = stats.Max(data)
		out = append(out, s)
	}
	return out
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="pt">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 0.3em 0.8em; }
section.trainee { page-break-after: always; break-after: page; }
</style>
</head>
<body>
{{range .Sections}}<section class="trainee">
{{.}}</section>
{{end}}{{if .Summary}}<section class="summary">
{{.Summary}}</section>
{{end}}</body>
</html>
`))

// Report renders a printable HTML document with one page per trainee followed by the
// class summary.
func Report(b *session.Book, criteria []string, title string) ([]byte, error) {
	if len(criteria) == 0 {
		criteria = b.Criteria()
	}
	if title == "" {
		title = "Avaliação"
	}

	data := struct {
		Title    string
		Sections []template.HTML
		Summary  template.HTML
	}{Title: title}

	for _, e := range b.Evaluations() {
		data.Sections = append(data.Sections, renderMarkdown(traineeMarkdown(title, e, criteria)))
	}
	if summary := summaryMarkdown(ClassStats(b, criteria)); summary != "" {
		data.Summary = renderMarkdown(summary)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func traineeMarkdown(title string, e models.Evaluation, criteria []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n## %s\n\n", escapeMarkdown(title), escapeMarkdown(e.Trainee))
	sb.WriteString("| Critério | Valor |\n|---|---|\n")
	for _, c := range criteria {
		v := "-"
		if x, ok := e.Value(c); ok {
			v = models.Text(x)
		}
		fmt.Fprintf(&sb, "| %s | %s |\n", escapeMarkdown(c), v)
	}
	if avg, ok := e.Average(criteria); ok {
		fmt.Fprintf(&sb, "\n**Média:** %s\n", models.Text(avg))
	}
	if r := strings.TrimSpace(e.Remarks); r != "" {
		fmt.Fprintf(&sb, "\n%s\n", escapeMarkdown(r))
	}
	return sb.String()
}

func summaryMarkdown(rows []CriterionStats) string {
	if len(rows) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Resumo da turma\n\n| Critério | N | Média | Mediana | Mín. | Máx. |\n|---|---|---|---|---|---|\n")
	for _, s := range rows {
		fmt.Fprintf(&sb, "| %s | %d | %s | %s | %s | %s |\n", escapeMarkdown(s.Criterion), s.Count,
			models.Text(s.Mean), models.Text(s.Median), models.Text(s.Min), models.Text(s.Max))
	}
	return sb.String()
}

// renderMarkdown converts markdown to HTML. Parsers keep state, so each call gets its own.
func renderMarkdown(md string) template.HTML {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`#`, `\#`,
	`|`, `&#124;`,
	`&`, `&amp;`,
	`<`, `&lt;`,
	`>`, `&gt;`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
