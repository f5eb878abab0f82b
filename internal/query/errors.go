package query

import (
	"errors"
	"fmt"
)

// ErrNoData is wrapped by every EmptyResultWarning.
var ErrNoData = errors.New("no data")

// EmptyResultWarning reports that a query's filter matched no rows.
// It is not fatal: the query is reported as "no data" and the others continue.
type EmptyResultWarning struct {
	// Query is the name of the operation, e.g. NameFirstFemale.
	Query string

	// Reason describes which filter came up empty.
	Reason string
}

// Error implements the error interface.
func (w *EmptyResultWarning) Error() string {
	return fmt.Sprintf("%s: %v: %s", w.Query, ErrNoData, w.Reason)
}

// Unwrap returns ErrNoData.
func (w *EmptyResultWarning) Unwrap() error {
	return ErrNoData
}

func noData(query, reason string) *EmptyResultWarning {
	return &EmptyResultWarning{Query: query, Reason: reason}
}

// AsWarning returns err as an *EmptyResultWarning when it is one.
func AsWarning(err error) (*EmptyResultWarning, bool) {
	var w *EmptyResultWarning
	if errors.As(err, &w) {
		return w, true
	}
	return nil, false
}
