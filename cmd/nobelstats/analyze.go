package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/nobelstats/internal/chart"
	"github.com/nao1215/nobelstats/internal/config"
	"github.com/nao1215/nobelstats/internal/database"
	"github.com/nao1215/nobelstats/internal/dataset"
	applog "github.com/nao1215/nobelstats/internal/log"
	"github.com/nao1215/nobelstats/internal/model"
	"github.com/nao1215/nobelstats/internal/pipeline"
	"github.com/nao1215/nobelstats/internal/query"
	"github.com/nao1215/nobelstats/internal/report"
	"github.com/spf13/cobra"
)

// runAnalyzeCmd executes the root command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAnalysis(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the config file and flags,
// in that order of precedence. Positional arguments replace the data file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit --config must exist; otherwise a missing file is fine.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	flags := cmd.Flags()

	if flags.Changed("data") {
		data, err := flags.GetString("data")
		if err != nil {
			return nil, err
		}
		cfg.DataFiles = []string{data}
	}
	if flags.Changed("results") {
		if cfg.ResultsDir, err = flags.GetString("results"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("jobs") {
		if cfg.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("save") {
		if cfg.SaveToDB, err = flags.GetBool("save"); err != nil {
			return nil, err
		}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.XLSXFile, err = flags.GetString("xlsx"); err != nil {
		return nil, err
	}
	if cfg.SummaryOnly, err = flags.GetBool("summary"); err != nil {
		return nil, err
	}
	if cfg.SkipCharts, err = flags.GetBool("no-charts"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	if cfg.JSONLog, err = cmd.Root().PersistentFlags().GetBool("log-json"); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.DataFiles = args
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on the log settings.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.JSONLog {
		return applog.NewJSONLogger(w, cfg.Verbose)
	}
	return applog.NewLogger(w, cfg.Verbose)
}

// runAnalysis analyzes every configured dataset and writes the reports.
// It returns an error if any dataset failed to load or a step failed.
func runAnalysis(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	logger.Info("starting analysis",
		"datasets", cfg.DataFiles,
		"results", cfg.ResultsDir,
		"jobs", cfg.Jobs,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "path", db.Path())
	}

	newPipeline := pipelineFactory(cfg, logger, db)
	startTime := time.Now()

	var reports []*model.AnalysisReport
	if len(cfg.DataFiles) == 1 {
		r := model.NewAnalysisReport(cfg.DataFiles[0], cfg.ResultsDirs()[0])
		_ = newPipeline().Execute(ctx, r) //nolint:errcheck // Error is stored in report
		reports = []*model.AnalysisReport{r}
	} else {
		var err error
		reports, err = runBatch(ctx, cfg, logger, newPipeline, stderr)
		if err != nil {
			return err
		}
	}

	logger.Info("analysis finished", "elapsed", time.Since(startTime).Round(time.Millisecond))

	loaded := make([]*model.AnalysisReport, 0, len(reports))
	var errs []error
	for _, r := range reports {
		if r.Dataset != nil {
			loaded = append(loaded, r)
		}
		if r.Error != nil {
			errs = append(errs, r.Error)
		}
	}

	if err := outputReports(cfg, stdout, loaded); err != nil {
		errs = append(errs, fmt.Errorf("failed to write report: %w", err))
	}

	if cfg.XLSXFile != "" && len(loaded) > 0 {
		if err := exportXLSX(cfg.XLSXFile, loaded); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("spreadsheet written", "path", cfg.XLSXFile)
		}
	}

	if err := ctx.Err(); err != nil {
		errs = append(errs, fmt.Errorf("analysis interrupted: %w", err))
	}

	return errors.Join(errs...)
}

// pipelineFactory returns a function building a fresh analysis pipeline.
func pipelineFactory(cfg *config.Config, logger *slog.Logger, db *database.HistoryDB) func() *pipeline.Pipeline {
	loader := dataset.NewLoaderFromConfig(cfg, logger)
	renderer := chart.NewRendererFromConfig(cfg, logger)

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineQueryOptions(query.OptionsFromConfig(cfg)),
		pipeline.WithPipelineSkipCharts(cfg.SkipCharts),
	}
	if db != nil {
		configOpts = append(configOpts, pipeline.WithPipelineRecorder(db))
	}

	return func() *pipeline.Pipeline {
		return pipeline.DefaultPipeline(loader, renderer,
			[]pipeline.Option{pipeline.WithLogger(logger)},
			configOpts...,
		)
	}
}

// runBatch analyzes several datasets concurrently and returns the reports
// in input order.
func runBatch(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	newPipeline func() *pipeline.Pipeline,
	stderr io.Writer,
) ([]*model.AnalysisReport, error) {
	dirs := cfg.ResultsDirs()

	var mu sync.Mutex
	progress := func(r *model.AnalysisReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		status := "done"
		if r.Failed() {
			status = "failed"
		}
		fmt.Fprintf(stderr, "[%d/%d] %s: %s\n", index+1, len(cfg.DataFiles), r.DataFile, status)
	}

	bp := pipeline.NewBatchProcessor(newPipeline,
		pipeline.WithConcurrency(cfg.Jobs),
		pipeline.WithBatchLogger(logger),
		pipeline.WithResultsDir(func(index int, _ string) string { return dirs[index] }),
		pipeline.WithProgress(progress),
	)

	reports, err := bp.ProcessBatch(ctx, cfg.DataFiles)
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}

	// Datasets never started because of cancellation have no report.
	done := make([]*model.AnalysisReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			done = append(done, r)
		}
	}
	return done, nil
}

// newWriter returns the report writer for the configured format.
func newWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output,
			report.WithVerbose(cfg.Verbose),
			report.WithShowEmpty(true),
		)
	}
}

// outputReports writes every report to stdout or the report file.
func outputReports(cfg *config.Config, stdout io.Writer, reports []*model.AnalysisReport) error {
	if len(reports) == 0 {
		return nil
	}

	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	w := newWriter(cfg, output)
	for _, r := range reports {
		var err error
		if cfg.SummaryOnly {
			_, err = w.WriteSummary(model.NewSummary(r))
		} else {
			_, err = w.Write(r)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// exportXLSX writes the aggregate tables of all reports to path.
func exportXLSX(path string, reports []*model.AnalysisReport) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create spreadsheet directory: %w", err)
		}
	}
	if err := report.NewXLSXExporter().Export(path, reports...); err != nil {
		return fmt.Errorf("failed to export spreadsheet: %w", err)
	}
	return nil
}
