package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/nobelstats/internal/chart"
	"github.com/nao1215/nobelstats/internal/config"
	"github.com/nao1215/nobelstats/internal/dataset"
	"github.com/nao1215/nobelstats/internal/model"
	"github.com/nao1215/nobelstats/internal/report"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `year,category,laureate_type,full_name,birth_country,sex
1901,Physics,Individual,Wilhelm Conrad Röntgen,Germany,Male
1903,Physics,Individual,Marie Curie,Poland,Female
1911,Chemistry,Individual,Marie Curie,Poland,Female
1917,Peace,Organization,International Committee of the Red Cross,,
1944,Peace,Organization,International Committee of the Red Cross,,
2001,Physics,Individual,Eric Cornell,United States of America,Male
2003,Chemistry,Individual,Peter Agre,United States of America,Male
2005,Medicine,Individual,Barry Marshall,France,Male
`

const maleOnlyCSV = `year,category,sex
1901,Physics,Male
1902,Chemistry,Male
1915,Physics,Male
`

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// runRoot executes the root command with an empty config file so no
// user configuration leaks into the test.
func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	hasConfig := false
	for _, a := range args {
		if a == "-c" || a == "--config" {
			hasConfig = true
		}
	}
	if !hasConfig {
		empty := writeFile(t, t.TempDir(), config.DefaultConfigFile, "")
		args = append(args, "--config", empty)
	}

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	t.Run("writes text report and charts", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		data := writeFile(t, dir, "nobel.csv", sampleCSV)
		results := filepath.Join(dir, "results")

		stdout, _, err := runRoot(t, data, "-r", results)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{
			"NOBEL LAUREATE ANALYSIS REPORT",
			"FINAL ANSWERS SUMMARY",
			model.QuestionGender + ": Male (4 of 6)",
			model.QuestionCountry + ": Poland (2)",
			model.QuestionUSRatio + ": 2000s (0.667)",
			model.QuestionFirstFemale + ": Marie Curie (Physics, 1903)",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}

		for _, name := range []string{chart.FileGender, chart.FileUSRatio, chart.FileHeatmap} {
			if _, err := os.Stat(filepath.Join(results, name)); err != nil {
				t.Errorf("expected %s: %v", name, err)
			}
		}
	})

	t.Run("data flag selects the dataset", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		data := writeFile(t, dir, "laureates.csv", sampleCSV)

		stdout, _, err := runRoot(t, "--data", data, "-r", filepath.Join(dir, "out"), "--summary")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "FINAL ANSWERS SUMMARY") {
			t.Error("expected answers block")
		}
		if strings.Contains(stdout, "GENDER DISTRIBUTION") {
			t.Error("summary mode should not print detail sections")
		}
	})

	t.Run("writes JSON report", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		data := writeFile(t, dir, "nobel.csv", sampleCSV)

		stdout, _, err := runRoot(t, data, "-r", filepath.Join(dir, "results"), "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded report.JSONReport
		if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if decoded.Version == "" {
			t.Error("expected version")
		}
		if decoded.Report.RecordCount != 8 {
			t.Errorf("expected 8 records, got %d", decoded.Report.RecordCount)
		}
		if len(decoded.Report.Charts) != 3 {
			t.Errorf("expected 3 charts, got %v", decoded.Report.Charts)
		}
		got := decoded.Summary.Answer(model.QuestionRepeat)
		if got != "International Committee of the Red Cross (2), Marie Curie (2)" {
			t.Errorf("repeat answer = %q", got)
		}
	})

	t.Run("writes Markdown report to file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		data := writeFile(t, dir, "nobel.csv", sampleCSV)
		out := filepath.Join(dir, "reports", "nobel.md")

		stdout, _, err := runRoot(t, data, "-r", filepath.Join(dir, "results"), "--markdown", "-o", out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}

		content, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# Nobel Laureate Analysis") {
			t.Error("expected Markdown title")
		}
		if !strings.Contains(string(content), "```mermaid") {
			t.Error("expected mermaid chart")
		}
	})

	t.Run("exports spreadsheet", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		data := writeFile(t, dir, "nobel.csv", sampleCSV)
		xlsx := filepath.Join(dir, "export", "nobel.xlsx")

		if _, _, err := runRoot(t, data, "-r", filepath.Join(dir, "results"), "--xlsx", xlsx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		f, err := excelize.OpenFile(xlsx)
		if err != nil {
			t.Fatalf("failed to open spreadsheet: %v", err)
		}
		defer f.Close()

		rows, err := f.GetRows(report.SheetSummary)
		if err != nil {
			t.Fatalf("GetRows() error = %v", err)
		}
		if len(rows) != 7 {
			t.Errorf("expected 7 summary rows, got %d", len(rows))
		}
	})

	t.Run("skips charts", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		data := writeFile(t, dir, "nobel.csv", sampleCSV)
		results := filepath.Join(dir, "results")

		if _, _, err := runRoot(t, data, "-r", results, "--no-charts"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(results); !os.IsNotExist(err) {
			t.Error("expected no results directory")
		}
	})

	t.Run("empty answers are warnings", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		data := writeFile(t, dir, "male.csv", maleOnlyCSV)

		stdout, _, err := runRoot(t, data, "-r", filepath.Join(dir, "results"))
		if err != nil {
			t.Fatalf("expected success with warnings, got %v", err)
		}
		if !strings.Contains(stdout, "WARNINGS") {
			t.Error("expected warnings section")
		}
		if !strings.Contains(stdout, model.QuestionFirstFemale+": "+model.NoData) {
			t.Error("expected no data for first female")
		}
		if !strings.Contains(stdout, "FIRST FEMALE LAUREATE\n"+strings.Repeat("-", 70)+"\n\n  No data\n") {
			t.Errorf("expected a no data section for first female, got:\n%s", stdout)
		}
	})
}

func TestAnalyzeErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing dataset", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		stdout, _, err := runRoot(t, filepath.Join(dir, "missing.csv"), "-r", filepath.Join(dir, "results"))
		if !errors.Is(err, dataset.ErrFileNotFound) {
			t.Fatalf("expected ErrFileNotFound, got %v", err)
		}
		if stdout != "" {
			t.Errorf("expected no report, got %q", stdout)
		}
	})

	t.Run("missing required column", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		data := writeFile(t, dir, "bad.csv", "category,sex\nPhysics,Male\n")

		_, _, err := runRoot(t, data, "-r", filepath.Join(dir, "results"))
		var loadErr *dataset.LoadError
		if !errors.As(err, &loadErr) {
			t.Fatalf("expected LoadError, got %v", err)
		}
		if loadErr.Column != "year" {
			t.Errorf("expected year column, got %q", loadErr.Column)
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		t.Parallel()

		_, _, err := runRoot(t, "--json", "--markdown")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("invalid jobs", func(t *testing.T) {
		t.Parallel()

		_, _, err := runRoot(t, "--jobs", "0")
		if !errors.Is(err, config.ErrInvalidJobs) {
			t.Errorf("expected ErrInvalidJobs, got %v", err)
		}
	})

	t.Run("explicit config file must exist", func(t *testing.T) {
		t.Parallel()

		_, _, err := runRoot(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestAnalyzeConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data := writeFile(t, dir, "nobel.csv", sampleCSV)
	results := filepath.Join(dir, "from-config")
	cfgFile := writeFile(t, dir, "nobelstats.yaml",
		"data: "+data+"\nresults: "+results+"\nusCountryNames: [Poland]\n")

	t.Run("config supplies dataset and settings", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runRoot(t, "--config", cfgFile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, model.QuestionUSRatio+": 1910s (1.000)") {
			t.Error("expected Poland to be counted as the US name")
		}
		if _, err := os.Stat(filepath.Join(results, chart.FileGender)); err != nil {
			t.Errorf("expected charts in configured directory: %v", err)
		}
	})

	t.Run("flags override config", func(t *testing.T) {
		t.Parallel()

		override := filepath.Join(t.TempDir(), "override")
		if _, _, err := runRoot(t, "--config", cfgFile, "-r", override, "--no-charts=false"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(override, chart.FileGender)); err != nil {
			t.Errorf("expected charts in flag directory: %v", err)
		}
	})
}

func TestAnalyzeBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFile(t, dir, "first.csv", sampleCSV)
	second := writeFile(t, dir, "second.csv", maleOnlyCSV)
	results := filepath.Join(dir, "results")

	stdout, stderr, err := runRoot(t, first, second, "-r", results, "--jobs", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Count(stdout, "NOBEL LAUREATE ANALYSIS REPORT") != 2 {
		t.Error("expected one report per dataset")
	}
	if strings.Index(stdout, first) > strings.Index(stdout, second) {
		t.Error("expected reports in input order")
	}
	if !strings.Contains(stderr, "/2] ") {
		t.Errorf("expected progress lines, got %q", stderr)
	}
	if _, err := os.Stat(filepath.Join(results, "first", chart.FileGender)); err != nil {
		t.Errorf("expected charts in per-dataset directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(results, "second", chart.FileGender)); err != nil {
		t.Errorf("expected charts in per-dataset directory: %v", err)
	}
}

func TestAnalyzeBatchSameFileName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o750); err != nil {
			t.Fatal(err)
		}
	}
	first := writeFile(t, dir, filepath.Join("a", "nobel.csv"), sampleCSV)
	second := writeFile(t, dir, filepath.Join("b", "nobel.csv"), maleOnlyCSV)
	results := filepath.Join(dir, "results")

	if _, _, err := runRoot(t, first, second, "-r", results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the first dataset has US-born laureates, so only its directory
	// holds the ratio chart.
	if _, err := os.Stat(filepath.Join(results, "nobel-1", chart.FileUSRatio)); err != nil {
		t.Errorf("expected first dataset's ratio chart: %v", err)
	}
	if _, err := os.Stat(filepath.Join(results, "nobel-2", chart.FileGender)); err != nil {
		t.Errorf("expected second dataset's charts: %v", err)
	}
	if _, err := os.Stat(filepath.Join(results, "nobel-2", chart.FileUSRatio)); !os.IsNotExist(err) {
		t.Error("second dataset should have no ratio chart")
	}
}

func TestAnalyzeBatchFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", sampleCSV)
	missing := filepath.Join(dir, "missing.csv")

	stdout, _, err := runRoot(t, good, missing, "-r", filepath.Join(dir, "results"))
	if !errors.Is(err, dataset.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if !strings.Contains(stdout, good) {
		t.Error("expected the good dataset to be reported")
	}
}
