package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/consolidate"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/export"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/layout"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/session"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/workbook"
)

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Write recorded evaluations into templates",
	}
	cmd.AddCommand(newFillGridCmd(), newFillRatingsCmd())
	return cmd
}

func newFillGridCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grid <template.xlsx> <scores.xlsx>",
		Short: "Fill a score grid template, one row per trainee",
		Long: `grid reads one evaluation per row of the scores sheet (a name column plus one
column per criterion) and writes each trainee's scores and average into the row of the
template whose name cell holds that trainee.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBook(cmd, args[1], cfg.Kind, cfg.Criteria)
			if err != nil {
				return err
			}
			wb, err := workbook.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			l := cfg.Grid
			if s := sheetFlag(cmd); s != "" {
				l.Sheet = s
			}
			if len(l.Fields) == 0 {
				l.Fields = layout.DefaultGrid(b.Criteria()).Fields
			}
			res, err := export.FillGrid(wb, l, b, cfg.Options())
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"placed":   len(res.Placed),
				"unplaced": len(res.Unplaced),
			}).Info("grid filled")

			data, err := wb.Bytes()
			if err != nil {
				return err
			}
			if outputPath == "" {
				outputPath = filledName(args[0])
			}
			return writeOutput(data)
		},
	}
}

func newFillRatingsCmd() *cobra.Command {
	var (
		outDir string
		bundle bool
		title  string
	)
	cmd := &cobra.Command{
		Use:   "ratings <form.xlsx> <ratings.xlsx>",
		Short: "Fill one copy of a rating form per trainee",
		Long: `ratings marks the 1, 3 or 5 column of every criterion on a fresh copy of the form for
each trainee. Macro-enabled forms keep their macros unchanged. With --bundle the forms and a
printable report are packed into one zip archive.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := cfg.Rating
			if s := sheetFlag(cmd); s != "" {
				l.Sheet = s
			}
			criteria := make([]string, 0, len(l.Criteria))
			for _, c := range l.Criteria {
				criteria = append(criteria, c.Name)
			}

			b, err := loadBook(cmd, args[1], evalsheet.KindRating, criteria)
			if err != nil {
				return err
			}
			if len(l.Criteria) == 0 {
				for _, c := range b.Criteria() {
					l.Criteria = append(l.Criteria, layout.Criterion{Name: c, Label: c})
				}
			}

			template, err := os.ReadFile(args[0])
			if err != nil {
				return evalsheet.NewProcessingError(filepath.Base(args[0]), err)
			}
			files, err := export.FillRatingForms(template, filepath.Base(args[0]), l, b)
			if err != nil {
				return err
			}
			for _, f := range files {
				if len(f.Missing) > 0 {
					log.WithFields(log.Fields{"file": f.Name, "criteria": f.Missing}).Warn("criteria not marked")
				}
			}

			if !bundle {
				return writeFiles(outDir, files)
			}
			opts := cfg.Options()
			opts.Kind = evalsheet.KindRating
			if opts.ShouldIncludeReport() {
				report, err := export.Report(b, nil, title)
				if err != nil {
					return err
				}
				files = append(files, export.File{Name: "relatorio.html", Data: report})
			}
			data, err := export.Bundle(files)
			if err != nil {
				return err
			}
			if outputPath == "" {
				outputPath = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + ".zip"
			}
			return writeOutput(data)
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for the filled forms")
	cmd.Flags().BoolVar(&bundle, "bundle", false, "Pack the forms and a report into one zip archive")
	cmd.Flags().StringVar(&title, "title", "", "Report title used with --bundle")
	return cmd
}

func newReportCmd() *cobra.Command {
	var (
		title string
		kind  string
	)
	cmd := &cobra.Command{
		Use:   "report <scores.xlsx>",
		Short: "Render a printable HTML report, one page per trainee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := cfg.Kind
			if kind != "" {
				k = evalsheet.Kind(kind)
			}
			b, err := loadBook(cmd, args[0], k, cfg.Criteria)
			if err != nil {
				return err
			}
			data, err := export.Report(b, cfg.Criteria, title)
			if err != nil {
				return err
			}
			return writeOutput(data)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Report title")
	cmd.Flags().StringVar(&kind, "kind", "", "score or rating (default from config)")
	return cmd
}

// loadBook reads a name-per-row evaluation sheet into a new book.
func loadBook(cmd *cobra.Command, path string, kind evalsheet.Kind, criteria []string) (*session.Book, error) {
	src, closeFn, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	t, err := consolidate.Load(src, sheetFlag(cmd), 0)
	if err != nil {
		return nil, err
	}
	b := session.NewBook(kind)
	skipped, err := b.LoadTable(t, cfg.Key, criteria)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		log.WithFields(log.Fields{"file": src.Name, "rows": len(skipped)}).Debug("rows without a name skipped")
	}
	return b, nil
}

func writeFiles(dir string, files []export.File) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	log.WithFields(log.Fields{"dir": dir, "files": len(files)}).Info("forms written")
	return nil
}

// filledName is the default output name of a filled template.
func filledName(template string) string {
	base := filepath.Base(template)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_preenchido" + ext
}
