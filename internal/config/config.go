package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultDataFile is the dataset path relative to the working directory.
	DefaultDataFile = "data/nobel.csv"

	// DefaultResultsDir is where the three chart images are written.
	// Files in it are overwritten on each run.
	DefaultResultsDir = "results"

	// DefaultJobs is the number of datasets analyzed concurrently when more
	// than one CSV is given. A single dataset is always processed sequentially.
	DefaultJobs = 4

	// DefaultChartWidth and DefaultChartHeight size the bar charts, in inches.
	DefaultChartWidth  = 12.0
	DefaultChartHeight = 6.0

	// DefaultHeatmapWidth and DefaultHeatmapHeight size the heatmap, in inches.
	DefaultHeatmapWidth  = 10.0
	DefaultHeatmapHeight = 8.0

	// DefaultUSCountryName is the birth_country value counted as US-born.
	DefaultUSCountryName = "United States of America"

	// FirstPrizeYear is the year the first Nobel Prizes were awarded.
	// Rows before it are rejected by the loader.
	FirstPrizeYear = 1901

	// AppName is the application name used for XDG directory paths.
	AppName = "nobelstats"
)

// Config holds all configuration options for nobelstats.
// It is populated from defaults, then the config file, then CLI flags, and
// passed through the application rather than kept in global state.
type Config struct {
	// DataFiles lists the CSV datasets to analyze.
	// With more than one entry each dataset gets its own results subdirectory.
	DataFiles []string

	// ResultsDir is the directory the chart images are written to.
	ResultsDir string

	// Verbose enables debug logging.
	Verbose bool

	// JSONLog switches log output from text to JSON lines.
	JSONLog bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// JSONReport enables JSON report output instead of the text report.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the text report.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When empty the report goes to stdout.
	ReportFile string

	// XLSXFile is the path of the optional spreadsheet export of the
	// aggregate tables. Empty disables the export.
	XLSXFile string

	// SummaryOnly prints only the final answers instead of the full report.
	SummaryOnly bool

	// SkipCharts disables chart rendering.
	SkipCharts bool

	// SaveToDB stores each run in the history database.
	SaveToDB bool

	// DBDir is the directory holding the SQLite history database.
	// Defaults to the XDG data directory (~/.local/share/nobelstats on Linux).
	DBDir string

	// Jobs is the number of datasets processed concurrently.
	Jobs int

	// ChartWidth and ChartHeight size the bar charts, in inches.
	ChartWidth  float64
	ChartHeight float64

	// HeatmapWidth and HeatmapHeight size the heatmap, in inches.
	HeatmapWidth  float64
	HeatmapHeight float64

	// USCountryNames are the birth_country values counted as US-born.
	// Matching ignores case and surrounding whitespace.
	USCountryNames []string

	// FallbackCountry replaces empty birth_country values on load.
	// Empty means missing countries stay missing and are excluded from
	// country-based aggregates.
	FallbackCountry string

	// MaxYear rejects rows with a later prize year. Zero disables the check.
	MaxYear int

	// ColumnAliases maps each canonical column name to the header names
	// accepted for it, in priority order.
	ColumnAliases map[string][]string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		DataFiles:      []string{DefaultDataFile},
		ResultsDir:     DefaultResultsDir,
		Jobs:           DefaultJobs,
		ChartWidth:     DefaultChartWidth,
		ChartHeight:    DefaultChartHeight,
		HeatmapWidth:   DefaultHeatmapWidth,
		HeatmapHeight:  DefaultHeatmapHeight,
		USCountryNames: []string{DefaultUSCountryName},
		DBDir:          XDGDataDir(),
		ColumnAliases:  DefaultColumnAliases(),
	}
}

// DefaultColumnAliases returns the header names recognized for each
// canonical column. Header names are compared after lower-casing and
// replacing spaces and dashes with underscores.
func DefaultColumnAliases() map[string][]string {
	return map[string][]string{
		"year":          {"year", "year_award", "awardYear", "prizeYear"},
		"full_name":     {"full_name", "name", "laureate_name"},
		"sex":           {"sex", "gender"},
		"birth_country": {"birth_country", "bornCountry", "birthCountry", "country", "birth_countryNow"},
		"category":      {"category", "prize_category", "discipline"},
		"laureate_type": {"laureate_type", "laureateType", "type"},
	}
}

// XDGDataDir returns the XDG data directory for nobelstats.
// On Linux: ~/.local/share/nobelstats
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for nobelstats.
// On Linux: ~/.config/nobelstats
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ResultsDirs returns the chart directory for each entry of DataFiles, by
// position. A single dataset writes straight into ResultsDir; several
// datasets each get their own subdirectory named after the CSV file. When
// file names collide, as with a/nobel.csv and b/nobel.csv, each gets a
// numeric suffix starting at its 1-based input position so no two datasets
// share a directory.
func (c *Config) ResultsDirs() []string {
	dirs := make([]string, len(c.DataFiles))
	if len(c.DataFiles) == 1 {
		dirs[0] = c.ResultsDir
		return dirs
	}

	stems := make([]string, len(c.DataFiles))
	counts := make(map[string]int, len(c.DataFiles))
	for i, f := range c.DataFiles {
		stems[i] = datasetStem(f)
		counts[stems[i]]++
	}

	// Unique names are kept as they are; colliding ones take the first free
	// "-N" suffix starting at their position.
	names := make([]string, len(stems))
	used := make(map[string]bool, len(stems))
	for i, stem := range stems {
		if counts[stem] == 1 {
			names[i] = stem
			used[stem] = true
		}
	}
	for i, stem := range stems {
		if names[i] != "" {
			continue
		}
		for n := i + 1; ; n++ {
			name := fmt.Sprintf("%s-%d", stem, n)
			if !used[name] {
				names[i] = name
				used[name] = true
				break
			}
		}
	}

	for i, name := range names {
		dirs[i] = filepath.Join(c.ResultsDir, name)
	}
	return dirs
}

// datasetStem returns the file name of path without its extension, or
// "dataset" when nothing is left (".csv").
func datasetStem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "dataset"
	}
	return stem
}

// Validate checks if the configuration is valid.
// It returns the first problem found; this runs once after flag parsing,
// before the dataset is read.
func (c *Config) Validate() error {
	if len(c.DataFiles) == 0 {
		return ErrNoDataFile
	}
	for _, f := range c.DataFiles {
		if f == "" {
			return ErrNoDataFile
		}
	}

	if c.ResultsDir == "" {
		return ErrNoResultsDir
	}

	if c.Jobs <= 0 {
		return ErrInvalidJobs
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.ChartWidth <= 0 || c.ChartHeight <= 0 || c.HeatmapWidth <= 0 || c.HeatmapHeight <= 0 {
		return ErrInvalidChartSize
	}

	if c.MaxYear != 0 && c.MaxYear < FirstPrizeYear {
		return ErrInvalidMaxYear
	}

	return nil
}
