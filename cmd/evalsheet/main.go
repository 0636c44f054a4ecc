// Package main provides the CLI entry point for evalsheet.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/evalsheet-go/internal/config"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/consolidate"
)

var (
	cfgFile    string
	envFile    string
	verbose    bool
	pretty     bool
	outputPath string

	v   = config.New()
	cfg *config.Config
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		log.Error(evalsheet.UserMessage(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "evalsheet",
		Short: "Merge trainee rosters with scores and fill evaluation templates",
		Long: `evalsheet joins roster and score spreadsheets on a key column and writes
trainee evaluations into score grids, rating forms and printable reports.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	pf.StringVar(&envFile, "env-file", ".env", "Environment file loaded when present")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	pf.String("key", "", "Join column (default from config: Nome)")
	pf.String("sheet", "", "Sheet selector; empty means the active sheet")
	pf.StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	pf.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	_ = v.BindPFlag("key", pf.Lookup("key"))
	_ = v.BindPFlag("verbose", pf.Lookup("verbose"))

	rootCmd.AddCommand(
		newMergeCmd(),
		newPreviewCmd(),
		newLocateCmd(),
		newRosterCmd(),
		newFillCmd(),
		newReportCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// setup configures logging and resolves the configuration before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	var err error
	if cfg, err = config.Load(v, cfgFile); err != nil {
		return err
	}
	if verbose || v.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	}
	return nil
}

// sheetFlag returns the --sheet value shared by every command.
func sheetFlag(cmd *cobra.Command) string {
	s, _ := cmd.Flags().GetString("sheet")
	return s
}

func openSource(path string) (consolidate.Source, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return consolidate.Source{}, nil, evalsheet.NewProcessingError(filepath.Base(path), err)
	}
	return consolidate.Source{Name: filepath.Base(path), Reader: f}, func() { f.Close() }, nil
}

// writeOutput writes data to --output, or to stdout when no path was given.
func writeOutput(data []byte) error {
	if outputPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.WithField("path", outputPath).Info("written")
	return nil
}

func writeJSON(doc interface{}) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return writeOutput(append(data, '\n'))
}
