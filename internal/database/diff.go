package database

// AnswerChange is one question whose answer differs between two runs.
type AnswerChange struct {
	Question string `json:"question"`
	Before   string `json:"before"`
	After    string `json:"after"`
}

// RunDiff compares two runs of the same dataset.
type RunDiff struct {
	Older *Run
	Newer *Run

	// DataChanged is true when the dataset fingerprints differ.
	DataChanged bool

	// Changes lists differing answers in summary order.
	Changes []AnswerChange
}

// Diff compares the summaries of older and newer. Both runs must have been
// loaded with their summaries (GetRun or LatestRuns).
func Diff(older, newer *Run) *RunDiff {
	d := &RunDiff{
		Older:       older,
		Newer:       newer,
		DataChanged: older.Fingerprint != newer.Fingerprint,
	}
	if older.Summary == nil || newer.Summary == nil {
		return d
	}

	for _, a := range newer.Summary.Answers {
		before := older.Summary.Answer(a.Question)
		if before != a.Answer {
			d.Changes = append(d.Changes, AnswerChange{
				Question: a.Question,
				Before:   before,
				After:    a.Answer,
			})
		}
	}
	return d
}

// Changed returns true if the data or any answer changed.
func (d *RunDiff) Changed() bool {
	return d.DataChanged || len(d.Changes) > 0
}
