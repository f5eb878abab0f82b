package model

// Canonical values produced by the loader's normalization.
const (
	// SexFemale and SexMale are the title-cased sex values.
	SexFemale = "Female"
	SexMale   = "Male"

	// TypeIndividual and TypeOrganization are the laureate_type values.
	TypeIndividual   = "Individual"
	TypeOrganization = "Organization"
)

// Laureate is one award record. A person who won twice appears as two
// Laureates with the same FullName.
type Laureate struct {
	// Year is the prize year.
	Year int `json:"year"`

	// Category is the prize category (Physics, Chemistry, Medicine,
	// Literature, Peace, Economics).
	Category string `json:"category"`

	// LaureateType is TypeIndividual or TypeOrganization.
	LaureateType string `json:"laureate_type"`

	// FullName may be empty, typically for organizations.
	FullName string `json:"full_name,omitempty"`

	// BirthCountry is the country name as given by the source. Empty when
	// unknown and no fallback is configured.
	BirthCountry string `json:"birth_country,omitempty"`

	// Sex is SexFemale, SexMale or empty. Only meaningful for individuals.
	Sex string `json:"sex,omitempty"`

	// Decade is derived from Year on load.
	Decade int `json:"decade"`

	// Row is the 1-based data row in the CSV (the header is row 0).
	Row int `json:"row"`
}

// IsIndividual reports whether the record belongs to a person.
func (l Laureate) IsIndividual() bool {
	return l.LaureateType == TypeIndividual
}

// IsFemale reports whether the record is a female laureate.
func (l Laureate) IsFemale() bool {
	return l.Sex == SexFemale
}

// DecadeOf returns the ten-year bucket for year, e.g. 1903 -> 1900.
func DecadeOf(year int) int {
	return (year / 10) * 10
}

// Dataset is the in-memory table the queries run against.
// It is built once by the loader and never mutated afterwards.
type Dataset struct {
	// Path is the CSV file the records were read from.
	Path string `json:"path"`

	// Fingerprint is the hex SHA3-256 digest of the raw file bytes.
	Fingerprint string `json:"fingerprint"`

	// Columns maps each canonical column name to the CSV header it was
	// read from. Derived columns (composed names, inferred types) are absent.
	Columns map[string]string `json:"columns"`

	// Records holds the rows in CSV order. Tie-breaking in the queries
	// relies on this order.
	Records []Laureate `json:"-"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Individuals returns the records with LaureateType == TypeIndividual,
// preserving table order.
func (d *Dataset) Individuals() []Laureate {
	if d == nil {
		return nil
	}
	out := make([]Laureate, 0, len(d.Records))
	for _, r := range d.Records {
		if r.IsIndividual() {
			out = append(out, r)
		}
	}
	return out
}

// YearRange returns the smallest and largest prize years, or zeros for an
// empty dataset.
func (d *Dataset) YearRange() (first, last int) {
	if d.Len() == 0 {
		return 0, 0
	}
	first, last = d.Records[0].Year, d.Records[0].Year
	for _, r := range d.Records[1:] {
		if r.Year < first {
			first = r.Year
		}
		if r.Year > last {
			last = r.Year
		}
	}
	return first, last
}
