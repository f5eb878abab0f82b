package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and let callers use
// errors.Is() for programmatic handling while keeping readable messages.
var (
	// ErrNoDataFile is returned when no dataset path is configured.
	ErrNoDataFile = errors.New("no dataset specified: provide a CSV path with --data or in the config file")

	// ErrNoResultsDir is returned when the chart output directory is empty.
	ErrNoResultsDir = errors.New("no results directory specified")

	// ErrInvalidJobs is returned when the batch concurrency is not positive.
	ErrInvalidJobs = errors.New("invalid jobs: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one report format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidChartSize is returned when a chart dimension is not positive.
	ErrInvalidChartSize = errors.New("invalid chart size: width and height must be positive")

	// ErrInvalidMaxYear is returned when maxYear is set below the first prize year.
	ErrInvalidMaxYear = errors.New("invalid maxYear: must be 0 or not earlier than 1901")
)
