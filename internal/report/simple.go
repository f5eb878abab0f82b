package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/nobelstats/internal/model"
)

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether questions without data get a section.
	showEmpty bool

	// verbose adds the full per-decade and per-group tables.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show sections with no data.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with the full aggregate tables.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report followed by the final answers block.
func (w *SimpleWriter) Write(report *model.AnalysisReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeGender(&sb, report.Results.Gender)
	w.writeCountry(&sb, report.Results.TopBirthCountry)
	w.writeUSRatio(&sb, report.Results.USBornRatio)
	w.writeFemaleProportion(&sb, report.Results.FemaleProportion)
	w.writeFirstFemale(&sb, report.Results.FirstFemale)
	w.writeRepeatWinners(&sb, report.Results.RepeatWinners)
	w.writeWarnings(&sb, report)
	w.writeCharts(&sb, report)
	w.writeAnswers(&sb, model.NewSummary(report))
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteSummary outputs only the final answers block.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder
	w.writeAnswers(&sb, summary)
	return w.output.Write([]byte(sb.String()))
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with dataset information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                   NOBEL LAUREATE ANALYSIS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Dataset:        %s\n", report.DataFile)
	fmt.Fprintf(sb, "Analyzed:       %s\n", report.DateAnalyzed.Format(dateLayout))
	fmt.Fprintf(sb, "Records:        %d\n", report.RecordCount)
	if report.FirstYear > 0 {
		fmt.Fprintf(sb, "Years:          %d-%d\n", report.FirstYear, report.LastYear)
	}
	if report.RunID != "" {
		fmt.Fprintf(sb, "Run ID:         %s\n", report.RunID)
	}

	switch {
	case report.Cancelled:
		sb.WriteString("Status:         CANCELLED (partial results)\n")
	case report.ErrorMessage != "":
		fmt.Fprintf(sb, "Status:         ERROR - %s\n", report.ErrorMessage)
	default:
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// noData writes a "no data" section when showEmpty is set.
func (w *SimpleWriter) noData(sb *strings.Builder, title string) {
	if !w.showEmpty {
		return
	}
	section(sb, title)
	sb.WriteString("  No data\n\n")
}

func (w *SimpleWriter) writeGender(sb *strings.Builder, g *model.GenderDistribution) {
	if g == nil {
		w.noData(sb, "GENDER DISTRIBUTION")
		return
	}
	section(sb, "GENDER DISTRIBUTION")
	for _, c := range g.Counts {
		fmt.Fprintf(sb, "  %-10s %6d  (%5.1f%%)\n", c.Sex, c.Count, c.Fraction*100)
	}
	fmt.Fprintf(sb, "  %-10s %6d\n\n", "Total", g.Total)
}

func (w *SimpleWriter) writeCountry(sb *strings.Builder, c *model.CountryCount) {
	if c == nil {
		w.noData(sb, "MOST COMMON BIRTH COUNTRY")
		return
	}
	section(sb, "MOST COMMON BIRTH COUNTRY")
	fmt.Fprintf(sb, "  %s: %d of %d laureates with a known birth country\n\n", c.Country, c.Count, c.Considered)
}

func (w *SimpleWriter) writeUSRatio(sb *strings.Builder, r *model.USBornRatio) {
	if r == nil {
		w.noData(sb, "US-BORN RATIO BY DECADE")
		return
	}
	section(sb, "US-BORN RATIO BY DECADE")
	fmt.Fprintf(sb, "  Highest: %ds with %.3f (%d of %d)\n", r.Best.Decade, r.Best.Ratio, r.Best.USBorn, r.Best.Total)
	if w.verbose {
		sb.WriteString("\n")
		for _, d := range r.Decades {
			fmt.Fprintf(sb, "  %ds  %.3f  (%d/%d)\n", d.Decade, d.Ratio, d.USBorn, d.Total)
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFemaleProportion(sb *strings.Builder, f *model.FemaleProportion) {
	if f == nil {
		w.noData(sb, "FEMALE PROPORTION BY DECADE AND CATEGORY")
		return
	}
	section(sb, "FEMALE PROPORTION BY DECADE AND CATEGORY")
	fmt.Fprintf(sb, "  Highest: %ds %s with %d%% (%d of %d)\n",
		f.Best.Decade, f.Best.Category, f.Best.Percent(), f.Best.Female, f.Best.Total)
	if w.verbose {
		sb.WriteString("\n")
		for _, c := range f.Cells {
			fmt.Fprintf(sb, "  %ds  %-12s %.2f  (%d/%d)\n", c.Decade, c.Category, c.Proportion, c.Female, c.Total)
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFirstFemale(sb *strings.Builder, f *model.FirstFemale) {
	if f == nil {
		w.noData(sb, "FIRST FEMALE LAUREATE")
		return
	}
	section(sb, "FIRST FEMALE LAUREATE")
	fmt.Fprintf(sb, "  %s, %s, %d\n\n", f.FullName, f.Category, f.Year)
}

func (w *SimpleWriter) writeRepeatWinners(sb *strings.Builder, winners []model.RepeatWinner) {
	if len(winners) == 0 {
		w.noData(sb, "REPEAT WINNERS")
		return
	}
	section(sb, "REPEAT WINNERS")
	for _, r := range winners {
		years := make([]string, len(r.Years))
		for i, y := range r.Years {
			years[i] = fmt.Sprintf("%d", y)
		}
		fmt.Fprintf(sb, "  * %s (%d)\n", r.FullName, r.Count)
		fmt.Fprintf(sb, "    Categories: %s\n", strings.Join(r.Categories, ", "))
		fmt.Fprintf(sb, "    Years: %s\n", strings.Join(years, ", "))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeWarnings(sb *strings.Builder, report *model.AnalysisReport) {
	if !report.HasWarnings() {
		return
	}
	section(sb, "WARNINGS")
	for _, warn := range report.Warnings {
		fmt.Fprintf(sb, "  [!] %s: %s\n", warn.Source, warn.Message)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeCharts(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.Charts) == 0 {
		return
	}
	section(sb, "CHARTS")
	for _, path := range report.Charts {
		fmt.Fprintf(sb, "  [+] %s\n", path)
	}
	sb.WriteString("\n")
}

// writeAnswers writes the final answers block.
func (w *SimpleWriter) writeAnswers(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("FINAL ANSWERS SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	for i, a := range summary.Answers {
		fmt.Fprintf(sb, "%d. %s: %s\n", i+1, a.Question, a.Answer)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by nobelstats\n")
	sb.WriteString("https://github.com/nao1215/nobelstats\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
