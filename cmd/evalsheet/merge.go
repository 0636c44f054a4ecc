package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/consolidate"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/models"
)

var headerRow int

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <primary.xlsx> [extra.xlsx...]",
		Short: "Left-join extra spreadsheets onto a roster and write the consolidated workbook",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runMerge(cmd, args)
			if err != nil {
				return err
			}
			if outputPath == "" {
				outputPath = evalsheet.DefaultOutputName
			}
			data, err := res.Workbook(cfg.Options())
			if err != nil {
				return err
			}
			return writeOutput(data)
		},
	}
	cmd.Flags().IntVar(&headerRow, "header-row", 0, "1-based header row (default: first non-empty row)")
	return cmd
}

type previewOutput struct {
	Columns    []string            `json:"columns"`
	Rows       [][]models.Value    `json:"rows"`
	TotalRows  int                 `json:"total_rows"`
	Duplicates map[string][]string `json:"duplicates,omitempty"`
}

func newPreviewCmd() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "preview <primary.xlsx> [extra.xlsx...]",
		Short: "Show the first rows of a merge as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runMerge(cmd, args)
			if err != nil {
				return err
			}
			opts := cfg.Options()
			if rows > 0 {
				opts.PreviewRows = rows
			}
			head := res.Preview(opts)
			out := previewOutput{
				Columns:    head.Header(),
				Rows:       make([][]models.Value, head.NumRows()),
				TotalRows:  res.Table.NumRows(),
				Duplicates: res.Duplicates,
			}
			for i := range out.Rows {
				out.Rows[i] = head.Record(i)
			}
			return writeJSON(out)
		},
	}
	cmd.Flags().IntVar(&headerRow, "header-row", 0, "1-based header row (default: first non-empty row)")
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "Rows to show (default from config)")
	return cmd
}

// runMerge loads the files named in args and merges them on the configured key.
// An empty roster is reported but still yields a result.
func runMerge(cmd *cobra.Command, args []string) (*consolidate.Result, error) {
	req := consolidate.Request{Key: cfg.Key, Sheet: sheetFlag(cmd), HeaderRow: headerRow}
	for i, path := range args {
		src, closeFn, err := openSource(path)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		if i == 0 {
			req.Primary = src
		} else {
			req.Extras = append(req.Extras, src)
		}
	}

	res, err := consolidate.Run(req)
	if err != nil {
		return nil, err
	}
	if res.Empty {
		log.Warn(evalsheet.UserMessage(evalsheet.ErrEmptyPrimaryTable))
	}
	for file, keys := range res.Duplicates {
		log.WithField("file", file).Warnf("%d repeated keys, the first row of each was used", len(keys))
	}
	return res, nil
}
