package report

import (
	"fmt"
	"io"

	"github.com/nao1215/nobelstats/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the exported workbook.
const (
	SheetSummary          = "Summary"
	SheetGender           = "Gender"
	SheetUSRatio          = "US Ratio"
	SheetFemaleProportion = "Female Proportion"
	SheetRepeatWinners    = "Repeat Winners"
)

// XLSXExporter writes the aggregate tables of one or more reports to an
// Excel workbook, one sheet per table. Every row starts with the dataset
// path so several datasets can share a workbook.
type XLSXExporter struct{}

// NewXLSXExporter creates an XLSXExporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Export writes the workbook to path, overwriting any existing file.
func (e *XLSXExporter) Export(path string, reports ...*model.AnalysisReport) error {
	f, err := e.build(reports)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // nothing to flush after SaveAs

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteTo writes the workbook to w.
func (e *XLSXExporter) WriteTo(w io.Writer, reports ...*model.AnalysisReport) error {
	f, err := e.build(reports)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // nothing to flush after Write

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// build creates the workbook in memory.
func (e *XLSXExporter) build(reports []*model.AnalysisReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range []string{SheetGender, SheetUSRatio, SheetFemaleProportion, SheetRepeatWinners} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close() //nolint:errcheck // already failing
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}

	sheets := newSheetWriter(f)
	sheets.row(SheetSummary, "Dataset", "Question", "Answer")
	sheets.row(SheetGender, "Dataset", "Sex", "Count", "Fraction")
	sheets.row(SheetUSRatio, "Dataset", "Decade", "US-born", "Total", "Ratio")
	sheets.row(SheetFemaleProportion, "Dataset", "Decade", "Category", "Female", "Total", "Proportion")
	sheets.row(SheetRepeatWinners, "Dataset", "Name", "Count", "Categories", "Years")

	for _, report := range reports {
		exportReport(sheets, report)
	}

	if sheets.err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return nil, sheets.err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// exportReport appends one report's tables to the workbook.
func exportReport(s *sheetWriter, report *model.AnalysisReport) {
	ds := report.DataFile

	for _, a := range model.NewSummary(report).Answers {
		s.row(SheetSummary, ds, a.Question, a.Answer)
	}

	res := report.Results
	if res.Gender != nil {
		for _, c := range res.Gender.Counts {
			s.row(SheetGender, ds, c.Sex, c.Count, c.Fraction)
		}
	}
	if res.USBornRatio != nil {
		for _, d := range res.USBornRatio.Decades {
			s.row(SheetUSRatio, ds, d.Decade, d.USBorn, d.Total, d.Ratio)
		}
	}
	if res.FemaleProportion != nil {
		for _, c := range res.FemaleProportion.Cells {
			s.row(SheetFemaleProportion, ds, c.Decade, c.Category, c.Female, c.Total, c.Proportion)
		}
	}
	for _, r := range res.RepeatWinners {
		years := ""
		for i, y := range r.Years {
			if i > 0 {
				years += ", "
			}
			years += fmt.Sprint(y)
		}
		categories := ""
		for i, c := range r.Categories {
			if i > 0 {
				categories += ", "
			}
			categories += c
		}
		s.row(SheetRepeatWinners, ds, r.FullName, r.Count, categories, years)
	}
}

// sheetWriter appends rows to sheets and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	next map[string]int
	err  error
}

func newSheetWriter(f *excelize.File) *sheetWriter {
	return &sheetWriter{f: f, next: make(map[string]int)}
}

func (s *sheetWriter) row(sheet string, values ...any) {
	if s.err != nil {
		return
	}
	s.next[sheet]++
	cell, err := excelize.CoordinatesToCellName(1, s.next[sheet])
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetSheetRow(sheet, cell, &values); err != nil {
		s.err = fmt.Errorf("failed to write %s row %d: %w", sheet, s.next[sheet], err)
	}
}
