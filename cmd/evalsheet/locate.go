package main

import (
	"github.com/spf13/cobra"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/export"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/locate"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/parser"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/roster"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/workbook"
)

type locateOutput struct {
	Found bool   `json:"found"`
	Cell  string `json:"cell,omitempty"`
	*models.LabelMatch
}

func newLocateCmd() *cobra.Command {
	var (
		ref   string
		whole bool
		q     locate.Query
	)
	cmd := &cobra.Command{
		Use:   "locate <file.xlsx> <text>",
		Short: "Find the first cell containing text inside a range",
		Long: `locate scans the range row by row, left to right, and prints the first cell whose
trimmed value contains the text. Without --range the sheet's print area is scanned;
--whole-sheet scans every used cell instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var region models.Region
			if ref != "" {
				var err error
				if region, err = models.ParseRange(ref); err != nil {
					return err
				}
			}
			wb, err := workbook.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			sheet, err := wb.ResolveSheet(sheetFlag(cmd))
			if err != nil {
				return err
			}
			if whole {
				used, ok, err := parser.UsedRegion(wb.File(), sheet)
				if err != nil {
					return err
				}
				if !ok {
					return writeJSON(locateOutput{})
				}
				region = used
			}

			q.Text = args[1]
			m, found, err := locate.FindText(wb, sheet, region, q)
			if err != nil {
				return err
			}
			out := locateOutput{Found: found}
			if found {
				out.Cell, out.LabelMatch = m.Cell(), &m
			}
			return writeJSON(out)
		},
	}
	cmd.Flags().StringVarP(&ref, "range", "r", "", "A1 range to scan, e.g. A1:T15")
	cmd.Flags().BoolVar(&whole, "whole-sheet", false, "Scan every used cell of the sheet")
	cmd.Flags().IntVar(&q.PrefixLen, "prefix", 0, "Search only the first N characters of text")
	cmd.Flags().BoolVar(&q.Exact, "exact", false, "Require the whole cell to equal text")
	return cmd
}

func newRosterCmd() *cobra.Command {
	var asTable bool
	cmd := &cobra.Command{
		Use:   "roster <file.xlsx>",
		Short: "Read the trainee names of a roster sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := workbook.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			l := cfg.Roster
			if s := sheetFlag(cmd); s != "" {
				l.Sheet = s
			}
			r, err := roster.Read(wb, l)
			if err != nil {
				return err
			}
			if !asTable {
				return writeJSON(r)
			}
			data, err := export.WriteTable(r.Table(wb.Name()), cfg.Options())
			if err != nil {
				return evalsheet.NewProcessingError(wb.Name(), err)
			}
			return writeOutput(data)
		},
	}
	cmd.Flags().BoolVar(&asTable, "xlsx", false, "Write the names as a one-column workbook instead of JSON")
	return cmd
}
