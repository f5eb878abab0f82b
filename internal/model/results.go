package model

// GenderCount is one row of the gender distribution.
type GenderCount struct {
	Sex      string  `json:"sex"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
}

// GenderDistribution counts individual laureates by sex.
// Rows with an empty sex are excluded from both counts and Total.
type GenderDistribution struct {
	// Counts lists each sex in first-encountered order.
	Counts []GenderCount `json:"counts"`

	// Total is the number of individuals with a non-empty sex.
	Total int `json:"total"`
}

// Top returns the most common sex. Ties go to the value seen first.
func (g *GenderDistribution) Top() (GenderCount, bool) {
	if g == nil || len(g.Counts) == 0 {
		return GenderCount{}, false
	}
	top := g.Counts[0]
	for _, c := range g.Counts[1:] {
		if c.Count > top.Count {
			top = c
		}
	}
	return top, true
}

// Count returns the count recorded for sex, or 0.
func (g *GenderDistribution) Count(sex string) int {
	if g == nil {
		return 0
	}
	for _, c := range g.Counts {
		if c.Sex == sex {
			return c.Count
		}
	}
	return 0
}

// CountryCount is the most common birth country.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`

	// Considered is the number of rows with a non-empty birth country.
	Considered int `json:"considered"`
}

// DecadeRatio is the share of US-born individuals in one decade.
type DecadeRatio struct {
	Decade int `json:"decade"`

	// USBorn counts individuals whose birth country is a US name.
	USBorn int `json:"us_born"`

	// Total counts individuals in the decade with a non-empty birth country.
	Total int `json:"total"`

	Ratio float64 `json:"ratio"`
}

// USBornRatio is the per-decade US-born ratio table and its best decade.
type USBornRatio struct {
	// Best is the decade with the highest ratio. Ties go to the decade
	// whose first row comes earliest in the table.
	Best DecadeRatio `json:"best"`

	// Decades is sorted by decade ascending and backs the ratio chart.
	Decades []DecadeRatio `json:"decades"`
}

// ProportionCell is the female share of one (decade, category) group.
type ProportionCell struct {
	Decade     int     `json:"decade"`
	Category   string  `json:"category"`
	Female     int     `json:"female"`
	Total      int     `json:"total"`
	Proportion float64 `json:"proportion"`
}

// Percent returns the proportion as a percentage rounded to the nearest
// whole number.
func (c ProportionCell) Percent() int {
	return int(c.Proportion*100 + 0.5)
}

// FemaleProportion is the decade x category table of female shares.
type FemaleProportion struct {
	// Best is the group with the highest proportion.
	Best ProportionCell `json:"best"`

	// Decades and Categories are the heatmap axes: decades ascending,
	// categories in first-encountered order.
	Decades    []int    `json:"decades"`
	Categories []string `json:"categories"`

	// Cells is sorted by decade, then by category position.
	Cells []ProportionCell `json:"cells"`
}

// Cell returns the cell for decade and category.
func (f *FemaleProportion) Cell(decade int, category string) (ProportionCell, bool) {
	if f == nil {
		return ProportionCell{}, false
	}
	for _, c := range f.Cells {
		if c.Decade == decade && c.Category == category {
			return c, true
		}
	}
	return ProportionCell{}, false
}

// FirstFemale is the earliest female laureate.
type FirstFemale struct {
	FullName string `json:"full_name"`
	Category string `json:"category"`
	Year     int    `json:"year"`
}

// RepeatWinner is a name that appears in two or more award records.
type RepeatWinner struct {
	FullName string `json:"full_name"`
	Count    int    `json:"count"`

	// Categories lists the distinct categories in first-seen order.
	Categories []string `json:"categories"`

	// Years is sorted ascending.
	Years []int `json:"years"`
}

// Results holds the answers to the six questions. A nil field means the
// query had no data; the matching Warning says why.
type Results struct {
	Gender           *GenderDistribution `json:"gender_distribution,omitempty"`
	TopBirthCountry  *CountryCount       `json:"top_birth_country,omitempty"`
	USBornRatio      *USBornRatio        `json:"us_born_ratio,omitempty"`
	FemaleProportion *FemaleProportion   `json:"female_proportion,omitempty"`
	FirstFemale      *FirstFemale        `json:"first_female,omitempty"`
	RepeatWinners    []RepeatWinner      `json:"repeat_winners,omitempty"`
}
