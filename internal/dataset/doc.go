// Package dataset loads the laureate CSV into a read-only model.Dataset.
//
// The loader maps source headers onto canonical columns through ordered
// alias lists, so exports with different column naming (year vs awardYear,
// sex vs gender) load into the same shape. Values are normalized on the way
// in: whitespace is collapsed, sex/category/type are title-cased and the
// decade is derived from the year.
//
// Any problem with the file itself (missing file, missing required column,
// bad year, empty category, malformed row) is returned as a *LoadError before
// a single query runs.
package dataset
