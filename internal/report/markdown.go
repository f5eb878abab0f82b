package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/nobelstats/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AnalysisReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeAlert(md, report)
	w.writeAnswersTable(md, model.NewSummary(report))
	w.writeGender(md, report.Results.Gender)
	w.writeUSRatio(md, report.Results.USBornRatio)
	w.writeFemaleProportion(md, report.Results.FemaleProportion)
	w.writeRepeatWinners(md, report.Results.RepeatWinners)
	w.writeCharts(md, report.Charts)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs only the final answers in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Nobel Laureate Analysis")
	md.PlainText("")
	w.writeAnswersTable(md, summary)
	return len(md.String()), md.Build()
}

// writeHeader writes the report header with dataset information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H1("Nobel Laureate Analysis")
	md.PlainText("")

	rows := [][]string{
		{"Dataset", "`" + report.DataFile + "`"},
		{"Analyzed", report.DateAnalyzed.Format(dateLayout)},
		{"Records", strconv.Itoa(report.RecordCount)},
	}
	if report.FirstYear > 0 {
		rows = append(rows, []string{"Years", fmt.Sprintf("%d-%d", report.FirstYear, report.LastYear)})
	}
	if report.Fingerprint != "" {
		rows = append(rows, []string{"SHA3-256", "`" + truncateString(report.Fingerprint, 16) + "`"})
	}
	rows = append(rows, []string{"Status", w.getStatusText(report)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.AnalysisReport) string {
	if report.Cancelled {
		return "⚠️ Cancelled (partial results)"
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeAlert notes queries or charts that had no data.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.AnalysisReport) {
	switch {
	case report.ErrorMessage != "":
		md.Cautionf("The analysis failed: %s", report.ErrorMessage)
	case report.HasWarnings():
		sources := make([]string, len(report.Warnings))
		for i, warn := range report.Warnings {
			sources[i] = warn.Source
		}
		md.Warningf("%d result(s) had no data: %s", len(report.Warnings), strings.Join(sources, ", "))
	default:
		md.Tip("All questions answered.")
	}
	md.PlainText("")
}

// writeAnswersTable writes one row per question.
func (w *MarkdownWriter) writeAnswersTable(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Final Answers")
	md.PlainText("")

	rows := make([][]string, len(summary.Answers))
	for i, a := range summary.Answers {
		rows[i] = []string{strconv.Itoa(i + 1), a.Question, a.Answer}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Question", "Answer"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeGender writes the gender table and a mermaid pie chart.
func (w *MarkdownWriter) writeGender(md *markdown.Markdown, g *model.GenderDistribution) {
	if g == nil {
		return
	}
	md.H2("Gender Distribution")
	md.PlainText("")

	rows := make([][]string, len(g.Counts))
	for i, c := range g.Counts {
		rows[i] = []string{c.Sex, strconv.Itoa(c.Count), fmt.Sprintf("%.1f%%", c.Fraction*100)}
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(g.Total) + "**", ""})
	md.Table(markdown.TableSet{
		Header: []string{"Sex", "Count", "Share"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Gender Distribution of Nobel Laureates"),
		piechart.WithShowData(true),
	)
	for _, c := range g.Counts {
		chart.LabelAndIntValue(c.Sex, uint64(c.Count)) //nolint:gosec // counts are non-negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeUSRatio(md *markdown.Markdown, r *model.USBornRatio) {
	if r == nil {
		return
	}
	md.H2("US-Born Ratio by Decade")
	md.PlainText("")

	rows := make([][]string, len(r.Decades))
	for i, d := range r.Decades {
		decade := fmt.Sprintf("%ds", d.Decade)
		if d.Decade == r.Best.Decade {
			decade = "**" + decade + "**"
		}
		rows[i] = []string{decade, strconv.Itoa(d.USBorn), strconv.Itoa(d.Total), fmt.Sprintf("%.3f", d.Ratio)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Decade", "US-born", "Total", "Ratio"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFemaleProportion(md *markdown.Markdown, f *model.FemaleProportion) {
	if f == nil {
		return
	}
	md.H2("Female Proportion by Decade and Category")
	md.PlainText("")

	header := append([]string{"Decade"}, f.Categories...)
	rows := make([][]string, len(f.Decades))
	for i, decade := range f.Decades {
		row := []string{fmt.Sprintf("%ds", decade)}
		for _, category := range f.Categories {
			cell, ok := f.Cell(decade, category)
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.2f", cell.Proportion))
		}
		rows[i] = row
	}
	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeRepeatWinners(md *markdown.Markdown, winners []model.RepeatWinner) {
	if len(winners) == 0 {
		return
	}
	md.H2("Repeat Winners")
	md.PlainText("")

	rows := make([][]string, len(winners))
	for i, r := range winners {
		years := make([]string, len(r.Years))
		for j, y := range r.Years {
			years[j] = strconv.Itoa(y)
		}
		rows[i] = []string{r.FullName, strconv.Itoa(r.Count), strings.Join(r.Categories, ", "), strings.Join(years, ", ")}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Name", "Wins", "Categories", "Years"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeCharts(md *markdown.Markdown, charts []string) {
	if len(charts) == 0 {
		return
	}
	md.H2("Charts")
	md.PlainText("")
	for _, path := range charts {
		md.PlainTextf("![%s](%s)", strings.TrimSuffix(filepath.Base(path), ".png"), path)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [nobelstats](https://github.com/nao1215/nobelstats)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
