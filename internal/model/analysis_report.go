package model

import (
	"time"
)

// Warning records a non-fatal problem: a query or chart that had no data.
type Warning struct {
	// Source is the query or chart name, e.g. "first_female".
	Source string `json:"source"`

	// Message is the human-readable reason.
	Message string `json:"message"`
}

// AnalysisReport is the result of one run over one dataset.
// The pipeline fills it step by step; writers and the history database read it.
type AnalysisReport struct {
	// RunID is set when the run is stored in the history database.
	RunID string `json:"run_id,omitempty"`

	// DataFile is the CSV path given on the command line or in the config.
	DataFile string `json:"data_file"`

	// ResultsDir is where this run's charts were written.
	ResultsDir string `json:"results_dir"`

	// DateAnalyzed is when the run started.
	DateAnalyzed time.Time `json:"date_analyzed"`

	// Fingerprint is copied from the dataset after loading.
	Fingerprint string `json:"fingerprint,omitempty"`

	// RecordCount is the number of rows loaded.
	RecordCount int `json:"record_count"`

	// FirstYear and LastYear bound the prize years in the dataset.
	FirstYear int `json:"first_year,omitempty"`
	LastYear  int `json:"last_year,omitempty"`

	// Dataset is the loaded table. Excluded from JSON due to size.
	Dataset *Dataset `json:"-"`

	// Results holds the query answers.
	Results Results `json:"results"`

	// Charts lists the image files written, in render order.
	Charts []string `json:"charts,omitempty"`

	// Warnings lists queries and charts that produced no data.
	Warnings []Warning `json:"warnings,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Cancelled is true when the run was interrupted.
	Cancelled bool `json:"cancelled"`

	// Error is the last step failure, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NewAnalysisReport creates an empty report for the given dataset path.
func NewAnalysisReport(dataFile, resultsDir string) *AnalysisReport {
	return &AnalysisReport{
		DataFile:     dataFile,
		ResultsDir:   resultsDir,
		DateAnalyzed: time.Now(),
	}
}

// SetDataset attaches the loaded table and copies its metadata.
func (r *AnalysisReport) SetDataset(ds *Dataset) {
	r.Dataset = ds
	r.Fingerprint = ds.Fingerprint
	r.RecordCount = ds.Len()
	r.FirstYear, r.LastYear = ds.YearRange()
}

// AddWarning records a warning. Duplicate source/message pairs are ignored.
func (r *AnalysisReport) AddWarning(source, message string) {
	for _, w := range r.Warnings {
		if w.Source == source && w.Message == message {
			return
		}
	}
	r.Warnings = append(r.Warnings, Warning{Source: source, Message: message})
}

// SetError records err as the report's failure.
func (r *AnalysisReport) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// HasWarnings returns true if any query or chart had no data.
func (r *AnalysisReport) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Failed returns true if a step failed.
func (r *AnalysisReport) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}
