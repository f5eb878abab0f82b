package chart

import (
	"fmt"
	"math"

	"github.com/nao1215/nobelstats/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// proportionGrid adapts a FemaleProportion table to plotter.GridXYZ.
// Columns are decades, rows are categories; missing groups are NaN.
type proportionGrid struct {
	table *model.FemaleProportion
}

func (g proportionGrid) Dims() (c, r int) {
	return len(g.table.Decades), len(g.table.Categories)
}

func (g proportionGrid) Z(c, r int) float64 {
	cell, ok := g.table.Cell(g.table.Decades[c], g.table.Categories[r])
	if !ok {
		return math.NaN()
	}
	return cell.Proportion
}

func (g proportionGrid) X(c int) float64 {
	return float64(c)
}

func (g proportionGrid) Y(r int) float64 {
	return float64(r)
}

// heatmapChart draws the female proportion by decade and category, each cell
// annotated with its value to two decimals.
func (r *Renderer) heatmapChart(res *model.Results) (*plot.Plot, vg.Length, vg.Length, error) {
	table := res.FemaleProportion
	if table == nil || len(table.Cells) == 0 {
		return nil, 0, 0, skipped(NameHeatmap, "no female proportion table to plot")
	}

	grid := proportionGrid{table: table}
	heat := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	// Proportions always lie in [0, 1].
	heat.Min = 0
	heat.Max = 1
	heat.NaN = noneColor

	labels := plotter.XYLabels{}
	for c, decade := range table.Decades {
		for row, category := range table.Categories {
			cell, ok := table.Cell(decade, category)
			if !ok {
				continue
			}
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(row)})
			labels.Labels = append(labels.Labels, fmt.Sprintf("%.2f", cell.Proportion))
		}
	}
	text, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to build heatmap labels: %w", err)
	}
	text.Offset = vg.Point{X: -vg.Points(9), Y: -vg.Points(4)}

	p := plot.New()
	p.Title.Text = "Female Proportion by Decade & Category"
	p.X.Label.Text = "Decade"
	p.Y.Label.Text = "Category"
	p.Add(heat, text)

	decadeNames := make([]string, len(table.Decades))
	for i, d := range table.Decades {
		decadeNames[i] = fmt.Sprintf("%ds", d)
	}
	p.NominalX(decadeNames...)

	ticks := make([]plot.Tick, len(table.Categories))
	for i, category := range table.Categories {
		ticks[i] = plot.Tick{Value: float64(i), Label: category}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Min = -0.5
	p.Y.Max = float64(len(table.Categories)) - 0.5

	return p, r.heatmapWidth, r.heatmapHeight, nil
}
