package query

import (
	"github.com/nao1215/nobelstats/internal/model"
)

// Query is one named operation that stores its answer in a model.Results.
type Query struct {
	// Name identifies the query in warnings and reports.
	Name string

	apply func(ds *model.Dataset, opts Options, res *model.Results) error
}

// Apply runs the query and stores a non-empty answer in res.
// An empty answer leaves res untouched and returns an *EmptyResultWarning.
func (q Query) Apply(ds *model.Dataset, opts Options, res *model.Results) error {
	return q.apply(ds, opts, res)
}

// All returns the six queries in report order.
func All() []Query {
	return []Query{
		{Name: NameGender, apply: func(ds *model.Dataset, _ Options, res *model.Results) error {
			v, err := GenderDistribution(ds)
			if err == nil {
				res.Gender = v
			}
			return err
		}},
		{Name: NameTopBirthCountry, apply: func(ds *model.Dataset, _ Options, res *model.Results) error {
			v, err := TopBirthCountry(ds)
			if err == nil {
				res.TopBirthCountry = v
			}
			return err
		}},
		{Name: NameUSBornRatio, apply: func(ds *model.Dataset, opts Options, res *model.Results) error {
			v, err := USBornRatioByDecade(ds, opts)
			if err == nil {
				res.USBornRatio = v
			}
			return err
		}},
		{Name: NameFemaleProportion, apply: func(ds *model.Dataset, _ Options, res *model.Results) error {
			v, err := FemaleProportion(ds)
			if err == nil {
				res.FemaleProportion = v
			}
			return err
		}},
		{Name: NameFirstFemale, apply: func(ds *model.Dataset, _ Options, res *model.Results) error {
			v, err := FirstFemaleWinner(ds)
			if err == nil {
				res.FirstFemale = v
			}
			return err
		}},
		{Name: NameRepeatWinners, apply: func(ds *model.Dataset, _ Options, res *model.Results) error {
			v, err := RepeatWinners(ds)
			if err == nil {
				res.RepeatWinners = v
			}
			return err
		}},
	}
}

// Run executes queries against ds and stores their answers in res. With no
// queries given, all six run. Each query runs independently; empty answers
// are collected as warnings and the rest still run.
func Run(ds *model.Dataset, opts Options, res *model.Results, queries ...Query) []*EmptyResultWarning {
	if len(queries) == 0 {
		queries = All()
	}

	var warnings []*EmptyResultWarning
	for _, q := range queries {
		if w, ok := AsWarning(q.Apply(ds, opts, res)); ok {
			warnings = append(warnings, w)
		}
	}
	return warnings
}
