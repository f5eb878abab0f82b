package chart

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/nobelstats/internal/config"
	"github.com/nao1215/nobelstats/internal/model"
	"github.com/nao1215/nobelstats/internal/query"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Output file names.
const (
	FileGender  = "gender_distribution.png"
	FileUSRatio = "usa_ratio_by_decade.png"
	FileHeatmap = "female_proportion_heatmap.png"
)

// Chart names, used in warnings and logs.
const (
	NameGender  = "gender_chart"
	NameUSRatio = "usa_ratio_chart"
	NameHeatmap = "female_proportion_heatmap"
)

var (
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	lineColor = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	noneColor = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// Renderer draws charts to PNG files. Sizes are in inches.
type Renderer struct {
	width         vg.Length
	height        vg.Length
	heatmapWidth  vg.Length
	heatmapHeight vg.Length
	logger        *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the bar chart size in inches.
func WithSize(width, height float64) Option {
	return func(r *Renderer) {
		r.width = vg.Length(width) * vg.Inch
		r.height = vg.Length(height) * vg.Inch
	}
}

// WithHeatmapSize sets the heatmap size in inches.
func WithHeatmapSize(width, height float64) Option {
	return func(r *Renderer) {
		r.heatmapWidth = vg.Length(width) * vg.Inch
		r.heatmapHeight = vg.Length(height) * vg.Inch
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer creates a Renderer with the default sizes.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{logger: slog.Default()}
	WithSize(config.DefaultChartWidth, config.DefaultChartHeight)(r)
	WithHeatmapSize(config.DefaultHeatmapWidth, config.DefaultHeatmapHeight)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRendererFromConfig creates a Renderer sized from cfg.
func NewRendererFromConfig(cfg *config.Config, logger *slog.Logger) *Renderer {
	return NewRenderer(
		WithSize(cfg.ChartWidth, cfg.ChartHeight),
		WithHeatmapSize(cfg.HeatmapWidth, cfg.HeatmapHeight),
		WithLogger(logger),
	)
}

// Chart describes one output image.
type Chart struct {
	Name string
	File string

	draw func(r *Renderer, res *model.Results) (p *plot.Plot, width, height vg.Length, err error)
}

// All returns the charts in render order.
func All() []Chart {
	return []Chart{
		{Name: NameGender, File: FileGender, draw: (*Renderer).genderChart},
		{Name: NameUSRatio, File: FileUSRatio, draw: (*Renderer).usRatioChart},
		{Name: NameHeatmap, File: FileHeatmap, draw: (*Renderer).heatmapChart},
	}
}

// Render draws c from res into dir, creating dir if needed, and returns the
// written path. Missing input gives a *query.EmptyResultWarning and no file.
func (r *Renderer) Render(c Chart, dir string, res *model.Results) (string, error) {
	p, width, height, err := c.draw(r, res)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	path := filepath.Join(dir, c.File)
	if err := p.Save(width, height, path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", c.Name, err)
	}

	r.logger.Debug("chart saved", "chart", c.Name, "path", path)
	return path, nil
}

// RenderAll draws every chart into dir. Charts without data are skipped and
// their warnings returned alongside the written paths. A chart that fails to
// render does not stop the others; the failures are joined into the error.
// ctx is checked before each chart.
func (r *Renderer) RenderAll(ctx context.Context, dir string, res *model.Results) ([]string, []*query.EmptyResultWarning, error) {
	var (
		paths    []string
		warnings []*query.EmptyResultWarning
		errs     []error
	)
	for _, c := range All() {
		if err := ctx.Err(); err != nil {
			return paths, warnings, err
		}

		path, err := r.Render(c, dir, res)
		if w, ok := query.AsWarning(err); ok {
			warnings = append(warnings, w)
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, warnings, errors.Join(errs...)
}

func skipped(name, reason string) *query.EmptyResultWarning {
	return &query.EmptyResultWarning{Query: name, Reason: reason}
}
