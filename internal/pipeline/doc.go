// Package pipeline runs an analysis as an ordered list of steps.
//
// A run over one dataset is: load the CSV, answer each question, render the
// charts and optionally record the run in the history database. Each stage is
// a Step that receives the AnalysisReport and fills in its part.
//
// Steps are isolated: a query with no data records a warning and the next
// step still runs. Only a failed load stops the pipeline, since nothing after
// it has a table to work on.
//
// Several datasets can be analyzed at once with BatchProcessor, which gives
// each dataset its own pipeline and bounds concurrency with errgroup.
package pipeline
