package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".nobelstats"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// ChartSettings holds chart dimensions from the config file, in inches.
type ChartSettings struct {
	Width         float64 `yaml:"width,omitempty"`
	Height        float64 `yaml:"height,omitempty"`
	HeatmapWidth  float64 `yaml:"heatmapWidth,omitempty"`
	HeatmapHeight float64 `yaml:"heatmapHeight,omitempty"`
}

// File represents the structure of the .nobelstats configuration file.
// Every field is optional; zero values leave the defaults untouched.
type File struct {
	// Data is the dataset path.
	Data string `yaml:"data,omitempty"`

	// Results is the chart output directory.
	Results string `yaml:"results,omitempty"`

	// History enables saving every run to the history database.
	History bool `yaml:"history,omitempty"`

	// FallbackCountry replaces empty birth_country values.
	FallbackCountry string `yaml:"fallbackCountry,omitempty"`

	// USCountryNames are the birth_country values counted as US-born.
	USCountryNames []string `yaml:"usCountryNames,omitempty"`

	// MaxYear rejects rows with a later prize year.
	MaxYear int `yaml:"maxYear,omitempty"`

	// Columns overrides header aliases per canonical column.
	// Columns that are not listed keep their default aliases.
	Columns map[string][]string `yaml:"columns,omitempty"`

	// Charts overrides chart dimensions.
	Charts ChartSettings `yaml:"charts,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Columns == nil {
		cf.Columns = make(map[string][]string)
	}

	return &cf, nil
}

// Apply copies the non-zero settings of the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	if cf.Data != "" {
		cfg.DataFiles = []string{cf.Data}
	}
	if cf.Results != "" {
		cfg.ResultsDir = cf.Results
	}
	if cf.History {
		cfg.SaveToDB = true
	}
	if cf.FallbackCountry != "" {
		cfg.FallbackCountry = cf.FallbackCountry
	}
	if len(cf.USCountryNames) > 0 {
		cfg.USCountryNames = cf.USCountryNames
	}
	if cf.MaxYear != 0 {
		cfg.MaxYear = cf.MaxYear
	}
	if len(cf.Columns) > 0 {
		if cfg.ColumnAliases == nil {
			cfg.ColumnAliases = make(map[string][]string)
		}
		for column, aliases := range cf.Columns {
			if len(aliases) > 0 {
				cfg.ColumnAliases[column] = aliases
			}
		}
	}
	if cf.Charts.Width > 0 {
		cfg.ChartWidth = cf.Charts.Width
	}
	if cf.Charts.Height > 0 {
		cfg.ChartHeight = cf.Charts.Height
	}
	if cf.Charts.HeatmapWidth > 0 {
		cfg.HeatmapWidth = cf.Charts.HeatmapWidth
	}
	if cf.Charts.HeatmapHeight > 0 {
		cfg.HeatmapHeight = cf.Charts.HeatmapHeight
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .nobelstats in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .nobelstats in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
