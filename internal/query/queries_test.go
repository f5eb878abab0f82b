package query

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/nao1215/nobelstats/internal/model"
)

const tolerance = 1e-9

// person builds an individual record.
func person(name string, year int, category, sex, country string) model.Laureate {
	return model.Laureate{
		Year:         year,
		Category:     category,
		LaureateType: model.TypeIndividual,
		FullName:     name,
		BirthCountry: country,
		Sex:          sex,
		Decade:       model.DecadeOf(year),
	}
}

// organization builds an organization record.
func organization(name string, year int, category string) model.Laureate {
	return model.Laureate{
		Year:         year,
		Category:     category,
		LaureateType: model.TypeOrganization,
		FullName:     name,
		Decade:       model.DecadeOf(year),
	}
}

func newDataset(records ...model.Laureate) *model.Dataset {
	for i := range records {
		records[i].Row = i + 1
	}
	return &model.Dataset{Path: "test.csv", Records: records}
}

// curieDataset contains the Marie Curie scenario plus unrelated rows.
func curieDataset() *model.Dataset {
	return newDataset(
		person("Wilhelm Conrad Röntgen", 1901, "Physics", model.SexMale, "Germany"),
		person("Marie Curie", 1903, "Physics", model.SexFemale, "Poland"),
		person("Pierre Curie", 1903, "Physics", model.SexMale, "France"),
		person("Bertha von Suttner", 1905, "Peace", model.SexFemale, "Austria"),
		person("Marie Curie", 1911, "Chemistry", model.SexFemale, "Poland"),
		organization("International Committee of the Red Cross", 1917, "Peace"),
		organization("International Committee of the Red Cross", 1944, "Peace"),
		person("Linus Pauling", 1954, "Chemistry", model.SexMale, "United States of America"),
		person("Linus Pauling", 1962, "Peace", model.SexMale, "United States of America"),
	)
}

func TestGenderDistribution(t *testing.T) {
	t.Parallel()

	t.Run("counts individuals only", func(t *testing.T) {
		t.Parallel()

		got, err := GenderDistribution(curieDataset())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Total != 7 {
			t.Errorf("expected 7 individuals, got %d", got.Total)
		}
		if got.Count(model.SexMale) != 4 || got.Count(model.SexFemale) != 3 {
			t.Errorf("unexpected counts %+v", got.Counts)
		}
		if got.Counts[0].Sex != model.SexMale {
			t.Errorf("expected first-encountered order, got %+v", got.Counts)
		}
		if top, _ := got.Top(); top.Sex != model.SexMale {
			t.Errorf("expected Male on top, got %s", top.Sex)
		}
	})

	t.Run("fractions sum to one", func(t *testing.T) {
		t.Parallel()

		ds := curieDataset()
		ds.Records = append(ds.Records, model.Laureate{Year: 1920, Category: "Physics", LaureateType: model.TypeIndividual, Decade: 1920})
		got, err := GenderDistribution(ds)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sum := 0.0
		for _, c := range got.Counts {
			sum += c.Fraction
		}
		if math.Abs(sum-1.0) > tolerance {
			t.Errorf("fractions sum to %v", sum)
		}
		if got.Total != 7 {
			t.Errorf("expected empty sex excluded, got total %d", got.Total)
		}
	})

	t.Run("no individuals warns", func(t *testing.T) {
		t.Parallel()

		got, err := GenderDistribution(newDataset(organization("UNHCR", 1954, "Peace")))
		if got != nil {
			t.Errorf("expected nil result, got %+v", got)
		}
		assertWarning(t, err, NameGender)
	})
}

func TestTopBirthCountry(t *testing.T) {
	t.Parallel()

	t.Run("returns most common country", func(t *testing.T) {
		t.Parallel()

		got, err := TopBirthCountry(curieDataset())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Poland and USA both have 2; Poland reaches 2 first (row 5 vs row 9).
		if got.Country != "Poland" || got.Count != 2 {
			t.Errorf("expected Poland (2), got %+v", got)
		}
		if got.Considered != 7 {
			t.Errorf("expected 7 rows considered, got %d", got.Considered)
		}
	})

	t.Run("tie goes to first country reaching the maximum", func(t *testing.T) {
		t.Parallel()

		ds := newDataset(
			person("A", 1901, "Physics", model.SexMale, "France"),
			person("B", 1902, "Physics", model.SexMale, "Germany"),
			person("C", 1903, "Physics", model.SexMale, "Germany"),
			person("D", 1904, "Physics", model.SexMale, "France"),
		)
		got, err := TopBirthCountry(ds)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Country != "Germany" {
			t.Errorf("expected Germany, got %s", got.Country)
		}
	})

	t.Run("no countries warns", func(t *testing.T) {
		t.Parallel()

		_, err := TopBirthCountry(newDataset(person("A", 1901, "Physics", model.SexMale, "")))
		assertWarning(t, err, NameTopBirthCountry)
	})
}

func TestUSBornRatioByDecade(t *testing.T) {
	t.Parallel()

	t.Run("US US France gives two thirds", func(t *testing.T) {
		t.Parallel()

		ds := newDataset(
			person("A", 2001, "Physics", model.SexMale, "United States of America"),
			person("B", 2003, "Chemistry", model.SexMale, "United States of America"),
			person("C", 2005, "Medicine", model.SexFemale, "France"),
		)
		got, err := USBornRatioByDecade(ds, DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Best.Decade != 2000 {
			t.Errorf("expected 2000s, got %d", got.Best.Decade)
		}
		if math.Round(got.Best.Ratio*1000)/1000 != 0.667 {
			t.Errorf("expected ratio 0.667, got %v", got.Best.Ratio)
		}
		if got.Best.USBorn != 2 || got.Best.Total != 3 {
			t.Errorf("unexpected counts %+v", got.Best)
		}
	})

	t.Run("table is sorted by decade and skips empty countries", func(t *testing.T) {
		t.Parallel()

		ds := newDataset(
			person("A", 1955, "Physics", model.SexMale, "United States of America"),
			person("B", 1901, "Physics", model.SexMale, "Germany"),
			person("C", 1912, "Physics", model.SexMale, ""),
			organization("Org", 1960, "Peace"),
		)
		got, err := USBornRatioByDecade(ds, DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Decades) != 2 || got.Decades[0].Decade != 1900 || got.Decades[1].Decade != 1950 {
			t.Errorf("unexpected decades %+v", got.Decades)
		}
		if got.Best.Decade != 1950 || got.Best.Ratio != 1 {
			t.Errorf("expected 1950s with ratio 1, got %+v", got.Best)
		}
	})

	t.Run("matches configured names ignoring case", func(t *testing.T) {
		t.Parallel()

		ds := newDataset(
			person("A", 1901, "Physics", model.SexMale, "usa"),
			person("B", 1902, "Physics", model.SexMale, "Canada"),
		)
		got, err := USBornRatioByDecade(ds, Options{USCountryNames: []string{"USA", "United States"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Best.USBorn != 1 {
			t.Errorf("expected 1 US-born, got %d", got.Best.USBorn)
		}
	})

	t.Run("ties go to the first decade in table order", func(t *testing.T) {
		t.Parallel()

		ds := newDataset(
			person("A", 1990, "Physics", model.SexMale, "United States of America"),
			person("B", 1950, "Physics", model.SexMale, "United States of America"),
		)
		got, err := USBornRatioByDecade(ds, DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Best.Decade != 1990 {
			t.Errorf("expected 1990s, got %d", got.Best.Decade)
		}
	})

	t.Run("no individuals with a country warns", func(t *testing.T) {
		t.Parallel()

		_, err := USBornRatioByDecade(newDataset(organization("Org", 1960, "Peace")), DefaultOptions())
		assertWarning(t, err, NameUSBornRatio)
	})
}

func TestFemaleProportion(t *testing.T) {
	t.Parallel()

	t.Run("builds the decade by category table", func(t *testing.T) {
		t.Parallel()

		got, err := FemaleProportion(curieDataset())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// 1900s Peace: Bertha von Suttner alone.
		if got.Best.Decade != 1900 || got.Best.Category != "Peace" || got.Best.Proportion != 1 {
			t.Errorf("unexpected best %+v", got.Best)
		}
		if got.Best.Percent() != 100 {
			t.Errorf("expected 100%%, got %d", got.Best.Percent())
		}

		physics, ok := got.Cell(1900, "Physics")
		if !ok || physics.Female != 1 || physics.Total != 3 {
			t.Errorf("unexpected 1900 Physics cell %+v", physics)
		}

		wantDecades := []int{1900, 1910, 1950, 1960}
		if len(got.Decades) != len(wantDecades) {
			t.Fatalf("expected decades %v, got %v", wantDecades, got.Decades)
		}
		for i, d := range wantDecades {
			if got.Decades[i] != d {
				t.Errorf("expected decades %v, got %v", wantDecades, got.Decades)
				break
			}
		}

		wantCategories := []string{"Physics", "Peace", "Chemistry"}
		for i, c := range wantCategories {
			if got.Categories[i] != c {
				t.Errorf("expected categories %v, got %v", wantCategories, got.Categories)
				break
			}
		}

		for i := 1; i < len(got.Cells); i++ {
			if got.Cells[i-1].Decade > got.Cells[i].Decade {
				t.Errorf("cells not sorted by decade: %+v", got.Cells)
			}
		}
	})

	t.Run("organizations are excluded", func(t *testing.T) {
		t.Parallel()

		got, err := FemaleProportion(curieDataset())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := got.Cell(1910, "Peace"); ok {
			t.Error("expected no 1910 Peace cell from an organization")
		}
	})

	t.Run("no individuals warns", func(t *testing.T) {
		t.Parallel()

		_, err := FemaleProportion(newDataset(organization("Org", 1960, "Peace")))
		assertWarning(t, err, NameFemaleProportion)
	})
}

func TestFirstFemaleWinner(t *testing.T) {
	t.Parallel()

	t.Run("Marie Curie scenario", func(t *testing.T) {
		t.Parallel()

		got, err := FirstFemaleWinner(curieDataset())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := model.FirstFemale{FullName: "Marie Curie", Category: "Physics", Year: 1903}
		if *got != want {
			t.Errorf("got %+v, want %+v", *got, want)
		}
	})

	t.Run("year is not after any female row", func(t *testing.T) {
		t.Parallel()

		ds := curieDataset()
		got, err := FirstFemaleWinner(ds)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, r := range ds.Records {
			if r.IsFemale() && r.Year < got.Year {
				t.Errorf("found earlier female row %+v", r)
			}
		}
	})

	t.Run("tie goes to the earlier row", func(t *testing.T) {
		t.Parallel()

		ds := newDataset(
			person("Second", 1950, "Physics", model.SexMale, ""),
			person("First", 1950, "Physics", model.SexFemale, ""),
			person("Also", 1950, "Chemistry", model.SexFemale, ""),
		)
		got, err := FirstFemaleWinner(ds)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.FullName != "First" {
			t.Errorf("expected First, got %s", got.FullName)
		}
	})

	t.Run("zero female laureates gives an absent result", func(t *testing.T) {
		t.Parallel()

		got, err := FirstFemaleWinner(newDataset(person("A", 1901, "Physics", model.SexMale, "")))
		if got != nil {
			t.Errorf("expected nil result, got %+v", got)
		}
		assertWarning(t, err, NameFirstFemale)
	})
}

func TestRepeatWinners(t *testing.T) {
	t.Parallel()

	t.Run("Marie Curie scenario", func(t *testing.T) {
		t.Parallel()

		got, err := RepeatWinners(curieDataset())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 repeat winners, got %+v", got)
		}

		// All have count 2, so names are ascending.
		wantNames := []string{"International Committee of the Red Cross", "Linus Pauling", "Marie Curie"}
		for i, name := range wantNames {
			if got[i].FullName != name || got[i].Count != 2 {
				t.Errorf("entry %d: got %+v, want (%s, 2)", i, got[i], name)
			}
		}

		curie := got[2]
		if len(curie.Categories) != 2 || curie.Categories[0] != "Physics" || curie.Categories[1] != "Chemistry" {
			t.Errorf("unexpected categories %v", curie.Categories)
		}
		if curie.Years[0] != 1903 || curie.Years[1] != 1911 {
			t.Errorf("unexpected years %v", curie.Years)
		}
	})

	t.Run("orders by count descending", func(t *testing.T) {
		t.Parallel()

		ds := newDataset(
			organization("Red Cross", 1917, "Peace"),
			person("Bardeen", 1956, "Physics", model.SexMale, ""),
			organization("Red Cross", 1944, "Peace"),
			person("Bardeen", 1972, "Physics", model.SexMale, ""),
			organization("Red Cross", 1963, "Peace"),
		)
		got, err := RepeatWinners(ds)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got[0].FullName != "Red Cross" || got[0].Count != 3 {
			t.Errorf("expected Red Cross (3) first, got %+v", got[0])
		}
		if len(got[1].Categories) != 1 {
			t.Errorf("expected distinct categories, got %v", got[1].Categories)
		}
	})

	t.Run("every result appears at least twice", func(t *testing.T) {
		t.Parallel()

		ds := curieDataset()
		got, err := RepeatWinners(ds)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		occurrences := make(map[string]int)
		for _, r := range ds.Records {
			occurrences[r.FullName]++
		}
		inResult := make(map[string]bool)
		for _, w := range got {
			inResult[w.FullName] = true
			if occurrences[w.FullName] < 2 || occurrences[w.FullName] != w.Count {
				t.Errorf("%s has count %d but appears %d times", w.FullName, w.Count, occurrences[w.FullName])
			}
		}
		for name, n := range occurrences {
			if n == 1 && inResult[name] {
				t.Errorf("single-occurrence name %s in result", name)
			}
		}
	})

	t.Run("empty names are ignored", func(t *testing.T) {
		t.Parallel()

		ds := newDataset(organization("", 1917, "Peace"), organization("", 1944, "Peace"))
		_, err := RepeatWinners(ds)
		assertWarning(t, err, NameRepeatWinners)
	})

	t.Run("no repeats warns", func(t *testing.T) {
		t.Parallel()

		_, err := RepeatWinners(newDataset(person("A", 1901, "Physics", model.SexMale, "")))
		assertWarning(t, err, NameRepeatWinners)
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("answers all six questions", func(t *testing.T) {
		t.Parallel()

		var res model.Results
		warnings := Run(curieDataset(), DefaultOptions(), &res)
		if len(warnings) != 0 {
			t.Errorf("expected no warnings, got %v", warnings)
		}
		if res.Gender == nil || res.TopBirthCountry == nil || res.USBornRatio == nil ||
			res.FemaleProportion == nil || res.FirstFemale == nil || len(res.RepeatWinners) == 0 {
			t.Errorf("expected every result set, got %+v", res)
		}
	})

	t.Run("one empty query does not stop the others", func(t *testing.T) {
		t.Parallel()

		ds := newDataset(
			person("A", 1901, "Physics", model.SexMale, "Germany"),
			person("B", 1902, "Physics", model.SexMale, "France"),
		)
		var res model.Results
		warnings := Run(ds, DefaultOptions(), &res)

		if res.FirstFemale != nil {
			t.Errorf("expected no first female, got %+v", res.FirstFemale)
		}
		if res.Gender == nil || res.TopBirthCountry == nil || res.USBornRatio == nil || res.FemaleProportion == nil {
			t.Errorf("expected other results set, got %+v", res)
		}

		names := make(map[string]bool)
		for _, w := range warnings {
			names[w.Query] = true
		}
		if !names[NameFirstFemale] || !names[NameRepeatWinners] || len(warnings) != 2 {
			t.Errorf("unexpected warnings %v", warnings)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		ds := curieDataset()
		var first, second model.Results
		Run(ds, DefaultOptions(), &first)
		Run(ds, DefaultOptions(), &second)

		a, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		b, err := json.Marshal(second)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(a) != string(b) {
			t.Errorf("results differ between runs:\n%s\n%s", a, b)
		}
	})

	t.Run("runs only the given queries", func(t *testing.T) {
		t.Parallel()

		var res model.Results
		warnings := Run(curieDataset(), DefaultOptions(), &res, All()[4])
		if len(warnings) != 0 {
			t.Errorf("expected no warnings, got %v", warnings)
		}
		if res.FirstFemale == nil || res.FirstFemale.FullName != "Marie Curie" {
			t.Errorf("expected first female answer, got %+v", res.FirstFemale)
		}
		if res.Gender != nil || res.RepeatWinners != nil {
			t.Errorf("expected other results untouched, got %+v", res)
		}
	})

	t.Run("does not modify the dataset", func(t *testing.T) {
		t.Parallel()

		ds := curieDataset()
		before, _ := json.Marshal(ds.Records)
		var res model.Results
		Run(ds, DefaultOptions(), &res)
		after, _ := json.Marshal(ds.Records)
		if string(before) != string(after) {
			t.Error("dataset was modified")
		}
	})
}

func TestEmptyResultWarning(t *testing.T) {
	t.Parallel()

	w := &EmptyResultWarning{Query: NameFirstFemale, Reason: "no female laureates"}
	if !errors.Is(w, ErrNoData) {
		t.Error("expected warning to wrap ErrNoData")
	}
	if w.Error() != "first_female: no data: no female laureates" {
		t.Errorf("unexpected message %q", w.Error())
	}
	if _, ok := AsWarning(errors.New("other")); ok {
		t.Error("expected plain error not to be a warning")
	}
}

func assertWarning(t *testing.T, err error, query string) {
	t.Helper()

	w, ok := AsWarning(err)
	if !ok {
		t.Fatalf("expected *EmptyResultWarning, got %v", err)
	}
	if w.Query != query {
		t.Errorf("expected warning for %s, got %s", query, w.Query)
	}
	if !errors.Is(err, ErrNoData) {
		t.Error("expected warning to wrap ErrNoData")
	}
}
