package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/nobelstats/internal/config"
	"github.com/nao1215/nobelstats/internal/database"
	"github.com/spf13/cobra"
)

const historyDateLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect runs saved with --save",
		Long: `History reads the run history database written by 'nobelstats --save'.

Examples:
  # List every stored run
  nobelstats history list

  # List the runs of one dataset
  nobelstats history list data/nobel.csv

  # Print a stored run
  nobelstats history show 3f1c9a2e-...

  # Show which answers changed between the latest two runs
  nobelstats history diff data/nobel.csv`,
	}

	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory holding the history database")

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryDiffCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [dataset]",
		Short: "List stored runs, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			var dataFile string
			if len(args) > 0 {
				dataFile = args[0]
			}
			return listRuns(cmd.Context(), cmd.OutOrStdout(), db, dataFile)
		},
	}
}

func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			run, err := db.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			jsonOutput, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			markdownOutput, err := cmd.Flags().GetBool("markdown")
			if err != nil {
				return err
			}

			if jsonOutput && markdownOutput {
				return config.ErrConflictingReportFormats
			}
			cfg := &config.Config{JSONReport: jsonOutput, MarkdownReport: markdownOutput}
			_, err = newWriter(cfg, cmd.OutOrStdout()).Write(run.Report)
			return err
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output the stored report as JSON")
	cmd.Flags().BoolP("markdown", "m", false, "Output the stored report as Markdown")

	return cmd
}

func newHistoryDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [dataset]",
		Short: "Compare the latest two runs of a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataFile := config.DefaultDataFile
			if len(args) > 0 {
				dataFile = args[0]
			}

			db, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.LatestRuns(cmd.Context(), dataFile, 2)
			if err != nil {
				return err
			}
			if len(runs) < 2 {
				return fmt.Errorf("need at least two runs of %s to compare, found %d", dataFile, len(runs))
			}

			diff := database.Diff(runs[1], runs[0])

			jsonOutput, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			if jsonOutput {
				return outputDiffJSON(cmd.OutOrStdout(), diff)
			}
			outputDiffText(cmd.OutOrStdout(), diff)
			return nil
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output the comparison as JSON")

	return cmd
}

// openHistory opens an existing history database.
func openHistory(cmd *cobra.Command) (*database.HistoryDB, error) {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

// listRuns prints the stored runs of dataFile, or all runs if it is empty.
func listRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, dataFile string) error {
	runs, err := db.ListRuns(ctx, dataFile)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		if dataFile == "" {
			fmt.Fprintln(out, "No runs found in the history database.")
		} else {
			fmt.Fprintf(out, "No runs found for %s\n", dataFile)
		}
		fmt.Fprintln(out, "\nUse 'nobelstats --save' to store a run.")
		return nil
	}

	if dataFile == "" {
		datasets, err := db.ListDatasets(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Stored runs (%d) across %d dataset(s):\n\n", len(runs), len(datasets))
	} else {
		fmt.Fprintf(out, "Stored runs for %s (%d):\n\n", dataFile, len(runs))
	}

	fmt.Fprintf(out, "  %-36s  %-19s  %-7s  %-8s  %s\n", "ID", "Date", "Records", "Warnings", "Dataset")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))
	for _, run := range runs {
		fmt.Fprintf(out, "  %-36s  %-19s  %-7d  %-8d  %s\n",
			run.ID,
			run.AnalyzedAt.Local().Format(historyDateLayout),
			run.RecordCount,
			run.Warnings,
			run.DataFile,
		)
	}

	fmt.Fprintln(out, "\nUse 'nobelstats history show <id>' to print a run.")
	return nil
}

// diffJSON is the JSON form of a run comparison.
type diffJSON struct {
	DataFile    string                  `json:"data_file"`
	OlderRun    string                  `json:"older_run"`
	NewerRun    string                  `json:"newer_run"`
	DataChanged bool                    `json:"data_changed"`
	Changes     []database.AnswerChange `json:"changes"`
}

func outputDiffJSON(out io.Writer, d *database.RunDiff) error {
	changes := d.Changes
	if changes == nil {
		changes = []database.AnswerChange{}
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(diffJSON{
		DataFile:    d.Newer.DataFile,
		OlderRun:    d.Older.ID,
		NewerRun:    d.Newer.ID,
		DataChanged: d.DataChanged,
		Changes:     changes,
	})
}

func outputDiffText(out io.Writer, d *database.RunDiff) {
	fmt.Fprintf(out, "Run Comparison: %s\n", d.Newer.DataFile)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious run: %s (%s)\n", d.Older.AnalyzedAt.Local().Format(historyDateLayout), d.Older.ID)
	fmt.Fprintf(out, "Current run:  %s (%s)\n", d.Newer.AnalyzedAt.Local().Format(historyDateLayout), d.Newer.ID)

	if d.DataChanged {
		fmt.Fprintf(out, "\nDataset: CHANGED (%d -> %d records)\n", d.Older.RecordCount, d.Newer.RecordCount)
	} else {
		fmt.Fprintln(out, "\nDataset: unchanged")
	}

	if len(d.Changes) == 0 {
		fmt.Fprintln(out, "\nNo answer changed.")
		return
	}

	fmt.Fprintf(out, "\nChanged answers (%d):\n", len(d.Changes))
	for _, c := range d.Changes {
		fmt.Fprintf(out, "  [~] %s\n", c.Question)
		fmt.Fprintf(out, "      before: %s\n", c.Before)
		fmt.Fprintf(out, "      after:  %s\n", c.After)
	}
}
