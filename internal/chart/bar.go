package chart

import (
	"fmt"

	"github.com/nao1215/nobelstats/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// genderChart draws laureate counts per sex, each bar labelled with its count.
func (r *Renderer) genderChart(res *model.Results) (*plot.Plot, vg.Length, vg.Length, error) {
	if res.Gender == nil || len(res.Gender.Counts) == 0 {
		return nil, 0, 0, skipped(NameGender, "no gender distribution to plot")
	}

	values := make(plotter.Values, len(res.Gender.Counts))
	names := make([]string, len(res.Gender.Counts))
	labels := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(res.Gender.Counts)),
		Labels: make([]string, len(res.Gender.Counts)),
	}
	for i, c := range res.Gender.Counts {
		values[i] = float64(c.Count)
		names[i] = c.Sex
		labels.XYs[i] = plotter.XY{X: float64(i), Y: float64(c.Count)}
		labels.Labels[i] = fmt.Sprintf("%d", c.Count)
	}

	p := plot.New()
	p.Title.Text = "Gender Distribution of Nobel Laureates"
	p.X.Label.Text = "Gender"
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(values, vg.Points(60))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to build gender bars: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	text, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to build gender labels: %w", err)
	}
	text.Offset = vg.Point{X: -vg.Points(6), Y: vg.Points(4)}

	p.Add(bars, text)
	p.NominalX(names...)
	p.Y.Min = 0

	return p, r.width, r.height, nil
}

// usRatioChart draws the US-born ratio per decade with a dashed line at the
// highest ratio.
func (r *Renderer) usRatioChart(res *model.Results) (*plot.Plot, vg.Length, vg.Length, error) {
	if res.USBornRatio == nil || len(res.USBornRatio.Decades) == 0 {
		return nil, 0, 0, skipped(NameUSRatio, "no US-born ratio table to plot")
	}

	decades := res.USBornRatio.Decades
	values := make(plotter.Values, len(decades))
	names := make([]string, len(decades))
	for i, d := range decades {
		values[i] = d.Ratio
		names[i] = fmt.Sprintf("%ds", d.Decade)
	}

	p := plot.New()
	p.Title.Text = "Ratio of US-Born Nobel Winners by Decade"
	p.X.Label.Text = "Decade"
	p.Y.Label.Text = "Ratio"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to build ratio bars: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	best := res.USBornRatio.Best.Ratio
	maxLine := plotter.NewFunction(func(float64) float64 { return best })
	maxLine.Color = lineColor
	maxLine.Width = vg.Points(1.5)
	maxLine.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	p.Add(bars, maxLine)
	p.Legend.Add(fmt.Sprintf("Max ratio: %.3f", best), maxLine)
	p.Legend.Top = true
	p.NominalX(names...)
	p.Y.Min = 0
	p.Y.Max = 1

	return p, r.width, r.height, nil
}
