// Package model defines the data structures shared across nobelstats.
//
// This package contains the following main types:
//   - Laureate: one normalized award record from the CSV
//   - Dataset: the read-only table of records plus source metadata
//   - Results: the answers to the six analytical questions
//   - AnalysisReport: one run over one dataset (results, warnings, charts)
//   - Summary: the condensed "final answers" view of a report
//
// The loader, query engine, chart renderer and report writers all depend on
// these types, so they live in their own package. All of them serialize to
// JSON for report output and history storage.
package model
