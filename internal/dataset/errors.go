package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by LoadError.
var (
	// ErrFileNotFound is returned when the CSV file does not exist.
	ErrFileNotFound = errors.New("data file not found")

	// ErrMissingColumn is returned when no header matches a required column.
	ErrMissingColumn = errors.New("required column missing")

	// ErrInvalidYear is returned when a year is not an integer or is out of range.
	ErrInvalidYear = errors.New("invalid year")

	// ErrMissingCategory is returned when a row has an empty category.
	ErrMissingCategory = errors.New("missing category")

	// ErrMalformedCSV is returned when the CSV cannot be parsed.
	ErrMalformedCSV = errors.New("malformed CSV")

	// ErrEmptyDataset is returned when the file has a header but no rows.
	ErrEmptyDataset = errors.New("dataset has no rows")
)

// LoadError describes why a dataset could not be loaded.
// Row is the 1-based data row, or 0 when the problem is not tied to a row.
type LoadError struct {
	Path   string
	Column string
	Row    int
	Err    error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to load %s", e.Path)
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

// Unwrap returns the underlying error so errors.Is works with the sentinels.
func (e *LoadError) Unwrap() error {
	return e.Err
}
