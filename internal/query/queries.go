package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nao1215/nobelstats/internal/config"
	"github.com/nao1215/nobelstats/internal/model"
)

// Query names, used in warnings, step names and report sections.
const (
	NameGender           = "gender_distribution"
	NameTopBirthCountry  = "top_birth_country"
	NameUSBornRatio      = "us_born_ratio"
	NameFemaleProportion = "female_proportion"
	NameFirstFemale      = "first_female"
	NameRepeatWinners    = "repeat_winners"
)

// Options tunes the queries.
type Options struct {
	// USCountryNames are the birth_country values counted as US-born.
	// Matching ignores case and surrounding whitespace.
	USCountryNames []string
}

// DefaultOptions returns Options with the default US country name.
func DefaultOptions() Options {
	return Options{USCountryNames: []string{config.DefaultUSCountryName}}
}

// OptionsFromConfig builds Options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if len(cfg.USCountryNames) > 0 {
		opts.USCountryNames = cfg.USCountryNames
	}
	return opts
}

func (o Options) isUS(country string) bool {
	country = strings.TrimSpace(country)
	for _, name := range o.USCountryNames {
		if strings.EqualFold(country, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// GenderDistribution counts individuals by sex. Organizations and rows with
// an empty sex are excluded from both counts and the total.
func GenderDistribution(ds *model.Dataset) (*model.GenderDistribution, error) {
	counts := make(map[string]int)
	order := make([]string, 0, 2)
	total := 0

	for _, r := range ds.Individuals() {
		if r.Sex == "" {
			continue
		}
		if _, exists := counts[r.Sex]; !exists {
			order = append(order, r.Sex)
		}
		counts[r.Sex]++
		total++
	}

	if total == 0 {
		return nil, noData(NameGender, "no individual laureates with a recorded sex")
	}

	dist := &model.GenderDistribution{Total: total, Counts: make([]model.GenderCount, 0, len(order))}
	for _, sex := range order {
		dist.Counts = append(dist.Counts, model.GenderCount{
			Sex:      sex,
			Count:    counts[sex],
			Fraction: float64(counts[sex]) / float64(total),
		})
	}
	return dist, nil
}

// TopBirthCountry returns the most common non-empty birth country across all
// records. On a tie the winner is the country whose running count reaches the
// maximum first in table order.
func TopBirthCountry(ds *model.Dataset) (*model.CountryCount, error) {
	counts := make(map[string]int)
	considered := 0
	for _, r := range ds.Records {
		if r.BirthCountry == "" {
			continue
		}
		counts[r.BirthCountry]++
		considered++
	}

	if considered == 0 {
		return nil, noData(NameTopBirthCountry, "no records with a birth country")
	}

	maxCount := 0
	for _, c := range counts {
		maxCount = max(maxCount, c)
	}

	running := make(map[string]int, len(counts))
	for _, r := range ds.Records {
		if r.BirthCountry == "" {
			continue
		}
		running[r.BirthCountry]++
		if running[r.BirthCountry] == maxCount {
			return &model.CountryCount{Country: r.BirthCountry, Count: maxCount, Considered: considered}, nil
		}
	}

	// Unreachable: some country's running count always reaches the maximum.
	return nil, noData(NameTopBirthCountry, "no records with a birth country")
}

// USBornRatioByDecade computes, per decade, the share of individuals with a
// non-empty birth country who were born in the US. Decades with no such
// individuals are left out. Best is the highest ratio; ties go to the decade
// encountered first in the table.
func USBornRatioByDecade(ds *model.Dataset, opts Options) (*model.USBornRatio, error) {
	groups := make(map[int]*model.DecadeRatio)
	order := make([]int, 0)

	for _, r := range ds.Individuals() {
		if r.BirthCountry == "" {
			continue
		}
		g, exists := groups[r.Decade]
		if !exists {
			g = &model.DecadeRatio{Decade: r.Decade}
			groups[r.Decade] = g
			order = append(order, r.Decade)
		}
		g.Total++
		if opts.isUS(r.BirthCountry) {
			g.USBorn++
		}
	}

	if len(order) == 0 {
		return nil, noData(NameUSBornRatio, "no individual laureates with a birth country")
	}

	result := &model.USBornRatio{Decades: make([]model.DecadeRatio, 0, len(order))}
	for i, decade := range order {
		g := groups[decade]
		g.Ratio = float64(g.USBorn) / float64(g.Total)
		if i == 0 || g.Ratio > result.Best.Ratio {
			result.Best = *g
		}
		result.Decades = append(result.Decades, *g)
	}
	slices.SortFunc(result.Decades, func(a, b model.DecadeRatio) int {
		return cmp.Compare(a.Decade, b.Decade)
	})
	return result, nil
}

// FemaleProportion computes the female share of individuals with a recorded
// sex for every (decade, category) group. Best is the highest share; ties go
// to the group encountered first in the table.
func FemaleProportion(ds *model.Dataset) (*model.FemaleProportion, error) {
	type key struct {
		decade   int
		category string
	}
	groups := make(map[key]*model.ProportionCell)
	order := make([]key, 0)
	categoryIndex := make(map[string]int)
	var categories []string
	var decades []int
	seenDecade := make(map[int]bool)

	for _, r := range ds.Individuals() {
		if r.Sex == "" {
			continue
		}
		k := key{decade: r.Decade, category: r.Category}
		g, exists := groups[k]
		if !exists {
			g = &model.ProportionCell{Decade: r.Decade, Category: r.Category}
			groups[k] = g
			order = append(order, k)
		}
		g.Total++
		if r.IsFemale() {
			g.Female++
		}

		if _, ok := categoryIndex[r.Category]; !ok {
			categoryIndex[r.Category] = len(categories)
			categories = append(categories, r.Category)
		}
		if !seenDecade[r.Decade] {
			seenDecade[r.Decade] = true
			decades = append(decades, r.Decade)
		}
	}

	if len(order) == 0 {
		return nil, noData(NameFemaleProportion, "no individual laureates with a recorded sex")
	}

	result := &model.FemaleProportion{
		Categories: categories,
		Cells:      make([]model.ProportionCell, 0, len(order)),
	}
	for i, k := range order {
		g := groups[k]
		g.Proportion = float64(g.Female) / float64(g.Total)
		if i == 0 || g.Proportion > result.Best.Proportion {
			result.Best = *g
		}
		result.Cells = append(result.Cells, *g)
	}

	slices.Sort(decades)
	result.Decades = decades
	slices.SortFunc(result.Cells, func(a, b model.ProportionCell) int {
		if c := cmp.Compare(a.Decade, b.Decade); c != 0 {
			return c
		}
		return cmp.Compare(categoryIndex[a.Category], categoryIndex[b.Category])
	})
	return result, nil
}

// FirstFemaleWinner returns the female laureate with the smallest year.
// Ties go to the earlier row.
func FirstFemaleWinner(ds *model.Dataset) (*model.FirstFemale, error) {
	var first *model.Laureate
	for i := range ds.Records {
		r := &ds.Records[i]
		if !r.IsFemale() {
			continue
		}
		if first == nil || r.Year < first.Year {
			first = r
		}
	}

	if first == nil {
		return nil, noData(NameFirstFemale, "no female laureates")
	}
	return &model.FirstFemale{FullName: first.FullName, Category: first.Category, Year: first.Year}, nil
}

// RepeatWinners groups every record with a non-empty name (individuals and
// organizations) by exact name and returns the names seen two or more times,
// ordered by count descending, then name ascending.
func RepeatWinners(ds *model.Dataset) ([]model.RepeatWinner, error) {
	groups := make(map[string]*model.RepeatWinner)
	order := make([]string, 0)
	named := 0

	for _, r := range ds.Records {
		if r.FullName == "" {
			continue
		}
		named++
		g, exists := groups[r.FullName]
		if !exists {
			g = &model.RepeatWinner{FullName: r.FullName}
			groups[r.FullName] = g
			order = append(order, r.FullName)
		}
		g.Count++
		g.Years = append(g.Years, r.Year)
		if !slices.Contains(g.Categories, r.Category) {
			g.Categories = append(g.Categories, r.Category)
		}
	}

	if named == 0 {
		return nil, noData(NameRepeatWinners, "no records with a name")
	}

	var winners []model.RepeatWinner
	for _, name := range order {
		g := groups[name]
		if g.Count < 2 {
			continue
		}
		slices.Sort(g.Years)
		winners = append(winners, *g)
	}

	if len(winners) == 0 {
		return nil, noData(NameRepeatWinners, "no name appears more than once")
	}

	slices.SortStableFunc(winners, func(a, b model.RepeatWinner) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.FullName, b.FullName)
	})
	return winners, nil
}
