package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/nobelstats/internal/chart"
	"github.com/nao1215/nobelstats/internal/dataset"
	"github.com/nao1215/nobelstats/internal/model"
	"github.com/nao1215/nobelstats/internal/query"
)

// ErrNoDataset is returned by steps that run before a dataset was loaded.
var ErrNoDataset = errors.New("no dataset loaded")

// LoadStep reads the report's CSV file into report.Dataset.
// It is critical: a failed load stops the pipeline.
type LoadStep struct {
	loader *dataset.Loader
	logger *slog.Logger
}

// NewLoadStep creates a load step.
func NewLoadStep(loader *dataset.Loader, logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{loader: loader, logger: logger}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Critical implements CriticalStep.
func (s *LoadStep) Critical() bool {
	return true
}

// Do loads the dataset.
func (s *LoadStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	ds, err := s.loader.Load(ctx, report.DataFile)
	if err != nil {
		return err
	}
	report.SetDataset(ds)
	return nil
}

// QueryStep answers one question and stores the answer in report.Results.
// An empty answer becomes a report warning, not a step failure.
type QueryStep struct {
	query  query.Query
	opts   query.Options
	logger *slog.Logger
}

// NewQueryStep creates a step for q.
func NewQueryStep(q query.Query, opts query.Options, logger *slog.Logger) *QueryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryStep{query: q, opts: opts, logger: logger}
}

// Name returns the query name.
func (s *QueryStep) Name() string {
	return s.query.Name
}

// Do runs the query.
func (s *QueryStep) Do(_ context.Context, report *model.AnalysisReport) error {
	if report.Dataset == nil {
		return ErrNoDataset
	}

	for _, w := range query.Run(report.Dataset, s.opts, &report.Results, s.query) {
		s.logger.Warn("query returned no data",
			"query", w.Query,
			"reason", w.Reason,
		)
		report.AddWarning(w.Query, w.Reason)
	}
	return nil
}

// ChartStep renders every chart into report.ResultsDir.
// Charts are independent: one without data is skipped with a warning and
// the rest are still drawn.
type ChartStep struct {
	renderer *chart.Renderer
	logger   *slog.Logger
}

// NewChartStep creates a chart step.
func NewChartStep(renderer *chart.Renderer, logger *slog.Logger) *ChartStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartStep{renderer: renderer, logger: logger}
}

// Name returns the step name.
func (s *ChartStep) Name() string {
	return "charts"
}

// Do renders the charts.
func (s *ChartStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	paths, warnings, err := s.renderer.RenderAll(ctx, report.ResultsDir, &report.Results)
	for _, w := range warnings {
		s.logger.Warn("chart skipped", "chart", w.Query, "reason", w.Reason)
		report.AddWarning(w.Query, w.Reason)
	}
	for _, path := range paths {
		s.logger.Info("chart written", "path", path)
	}
	report.Charts = append(report.Charts, paths...)
	return err
}

// RunRecorder stores finished runs. It is satisfied by *database.HistoryDB.
type RunRecorder interface {
	SaveRun(ctx context.Context, report *model.AnalysisReport) (string, error)
}

// HistoryStep saves the report to the run history.
type HistoryStep struct {
	recorder RunRecorder
	logger   *slog.Logger
}

// NewHistoryStep creates a history step.
func NewHistoryStep(recorder RunRecorder, logger *slog.Logger) *HistoryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStep{recorder: recorder, logger: logger}
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return "history"
}

// Do records the run. report.RunID is set by the recorder.
func (s *HistoryStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	id, err := s.recorder.SaveRun(ctx, report)
	if err != nil {
		return err
	}
	s.logger.Info("run saved", "id", id, "dataset", report.DataFile)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// QueryOptions is passed to every query step.
	QueryOptions query.Options

	// Recorder, when set, adds a history step at the end.
	Recorder RunRecorder

	// SkipCharts leaves out the chart step.
	SkipCharts bool
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineQueryOptions sets the query options.
func WithPipelineQueryOptions(opts query.Options) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.QueryOptions = opts
	}
}

// WithPipelineRecorder enables the history step.
func WithPipelineRecorder(recorder RunRecorder) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Recorder = recorder
	}
}

// WithPipelineSkipCharts disables chart rendering.
func WithPipelineSkipCharts(skip bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SkipCharts = skip
	}
}

// DefaultPipeline creates the standard analysis pipeline:
// load, the six queries, charts and, when a recorder is set, history.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// Steps are always isolated, so WithContinueOnError(true) is applied first
// and may be overridden.
func DefaultPipeline(
	loader *dataset.Loader,
	renderer *chart.Renderer,
	pipelineOpts []Option,
	configOpts ...DefaultPipelineOption,
) *Pipeline {
	p := New(append([]Option{WithContinueOnError(true)}, pipelineOpts...)...)

	cfg := &DefaultPipelineConfig{QueryOptions: query.DefaultOptions()}
	for _, opt := range configOpts {
		opt(cfg)
	}

	steps := []Step{NewLoadStep(loader, p.logger)}
	for _, q := range query.All() {
		steps = append(steps, NewQueryStep(q, cfg.QueryOptions, p.logger))
	}
	if !cfg.SkipCharts {
		steps = append(steps, NewChartStep(renderer, p.logger))
	}
	if cfg.Recorder != nil {
		steps = append(steps, NewHistoryStep(cfg.Recorder, p.logger))
	}
	p.AddSteps(steps...)

	return p
}
