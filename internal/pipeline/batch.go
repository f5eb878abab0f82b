package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/nobelstats/internal/config"
	"github.com/nao1215/nobelstats/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor analyzes several datasets concurrently.
// Each dataset gets a fresh pipeline from the factory and its own results
// directory; the pipeline itself stays sequential.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each dataset.
	pipelineFactory func() *Pipeline

	// resultsDir maps a dataset, by input position and path, to the
	// directory its charts go to.
	resultsDir func(index int, dataFile string) string

	// progress is called as each dataset completes.
	progress func(report *model.AnalysisReport, index int)

	// concurrency is the maximum number of datasets analyzed at once.
	concurrency int

	logger *slog.Logger

	// results stores completed reports in input order.
	// Access is synchronized via mutex.
	results []*model.AnalysisReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
// Default is config.DefaultJobs.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithResultsDir sets how a dataset maps to its results directory. fn gets
// the dataset's position in the input and its path; it must return distinct
// directories for distinct positions or concurrent pipelines overwrite each
// other's charts.
func WithResultsDir(fn func(index int, dataFile string) string) BatchOption {
	return func(b *BatchProcessor) {
		if fn != nil {
			b.resultsDir = fn
		}
	}
}

// WithProgress sets a callback run as each dataset completes. It runs on the
// worker goroutine and must be safe for concurrent use.
func WithProgress(fn func(report *model.AnalysisReport, index int)) BatchOption {
	return func(b *BatchProcessor) {
		b.progress = fn
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// pipelineFactory is called once per dataset so no step state is shared.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		resultsDir:      func(int, string) string { return config.DefaultResultsDir },
		concurrency:     config.DefaultJobs,
		results:         make([]*model.AnalysisReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes every dataset, at most concurrency at a time.
//
// Returns all reports in input order, including those that failed; a failed
// dataset does not stop the others. Datasets never started because the
// batch was cancelled have a nil entry, and the error is then non-nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, dataFiles []string) ([]*model.AnalysisReport, error) {
	bp.logger.Info("starting batch processing",
		"datasets", len(dataFiles),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*model.AnalysisReport, len(dataFiles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, dataFile := range dataFiles {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewAnalysisReport(dataFile, bp.resultsDir(i, dataFile))
			err := bp.pipelineFactory().Execute(ctx, report)

			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if bp.progress != nil {
				bp.progress(report, i)
			}

			if err != nil {
				bp.logger.Warn("analysis failed",
					"dataset", dataFile,
					"error", err,
				)
				// The error is recorded in the report; keep the other datasets going.
				return nil
			}

			bp.logger.Info("analysis completed", "dataset", dataFile)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"datasets", len(dataFiles),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}
