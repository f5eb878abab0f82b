// Package query answers the six analytical questions over a model.Dataset.
//
// Every operation is a pure function of the dataset: it never mutates the
// records and re-running it yields identical results. Grouping keeps the
// first-encountered order of keys, so ties are broken by CSV row order unless
// an operation documents otherwise.
//
// When a filter leaves no rows, an operation returns a nil result and an
// *EmptyResultWarning instead of failing. Run executes all six operations
// independently so one empty answer never hides the others.
package query
