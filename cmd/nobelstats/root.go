package main

import (
	"fmt"
	"os"

	"github.com/nao1215/nobelstats/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for nobelstats.
// Running it without a subcommand analyzes the configured dataset.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nobelstats [csv-file...]",
		Short: "Analyze the Nobel Prize laureate dataset",
		Long: `nobelstats reads a CSV table of Nobel Prize laureates and answers:

1. the most commonly awarded gender
2. the most commonly awarded birth country
3. the decade with the highest ratio of US-born winners
4. the decade and category with the highest proportion of female laureates
5. the first woman to receive a Nobel Prize
6. the individuals or organizations that won more than once

It writes three charts (gender_distribution.png, usa_ratio_by_decade.png and
female_proportion_heatmap.png) to the results directory.

Examples:
  # Analyze data/nobel.csv and write charts to results/
  nobelstats

  # Analyze another file and print a JSON report
  nobelstats --data laureates.csv --json

  # Analyze several files, two at a time, one results subdirectory each
  nobelstats 2019.csv 2024.csv --jobs 2

  # Export the aggregate tables and keep the run in the history database
  nobelstats --xlsx nobel.xlsx --save`,
		Version:       getVersion(),
		Args:          cobra.ArbitraryArgs,
		RunE:          runAnalyzeCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	// Input and output locations
	cmd.Flags().StringP("data", "d", config.DefaultDataFile,
		"CSV dataset to analyze (positional arguments take precedence)")
	cmd.Flags().StringP("results", "r", config.DefaultResultsDir,
		"Directory the chart images are written to")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .nobelstats in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().StringP("xlsx", "x", "",
		"Also export the aggregate tables to this Excel file")
	cmd.Flags().BoolP("summary", "S", false,
		"Print only the final answers")

	// Run behavior
	cmd.Flags().BoolP("save", "s", false,
		"Save the run to the history database")
	cmd.Flags().IntP("jobs", "b", config.DefaultJobs,
		"Number of datasets analyzed concurrently")
	cmd.Flags().Bool("no-charts", false,
		"Skip chart rendering")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the history database")

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
