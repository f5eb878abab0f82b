package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/nao1215/nobelstats/internal/config"
	"github.com/nao1215/nobelstats/internal/model"
	"golang.org/x/crypto/sha3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Loader reads laureate CSV files.
// A Loader is safe for concurrent use; each Load call builds its own state.
type Loader struct {
	aliases         map[string][]string
	fallbackCountry string
	maxYear         int
	logger          *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithAliases replaces the alias lists for the given canonical columns.
// Columns not present in aliases keep their defaults.
func WithAliases(aliases map[string][]string) Option {
	return func(l *Loader) {
		for canonical, list := range aliases {
			l.aliases[canonical] = list
		}
	}
}

// WithFallbackCountry fills empty birth countries with country.
func WithFallbackCountry(country string) Option {
	return func(l *Loader) {
		l.fallbackCountry = country
	}
}

// WithMaxYear rejects rows with a year after maxYear. Zero disables the check.
func WithMaxYear(maxYear int) Option {
	return func(l *Loader) {
		l.maxYear = maxYear
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader with the default column aliases.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		aliases: config.DefaultColumnAliases(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewLoaderFromConfig creates a Loader configured from cfg.
func NewLoaderFromConfig(cfg *config.Config, logger *slog.Logger) *Loader {
	return NewLoader(
		WithAliases(cfg.ColumnAliases),
		WithFallbackCountry(cfg.FallbackCountry),
		WithMaxYear(cfg.MaxYear),
		WithLogger(logger),
	)
}

// Load reads and parses the CSV at path.
// The file is read fully and closed before parsing.
func (l *Loader) Load(ctx context.Context, path string) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided by design
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %w", ErrFileNotFound, err)}
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	return l.Parse(path, data)
}

// Parse builds a Dataset from raw CSV bytes. path is used for error
// messages and stored on the Dataset.
func (l *Loader) Parse(path string, data []byte) (*model.Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Path: path, Err: ErrEmptyDataset}
		}
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: failed to read header: %w", ErrMalformedCSV, err)}
	}

	cm := resolveColumns(headers, l.aliases)
	for _, required := range requiredColumns {
		if !cm.has(required) {
			return nil, &LoadError{Path: path, Column: required, Err: ErrMissingColumn}
		}
	}

	composeName := l.nameComposer(cm)
	if !cm.has(ColumnBirthCountry) {
		l.logger.Warn("no birth country column, country queries will have no data", "path", path)
	}
	if !cm.has(ColumnLaureateType) {
		l.logger.Debug("no laureate type column, inferring from sex", "path", path)
	}

	// cases.Caser keeps internal state and must not be shared.
	caser := cases.Title(language.English)
	title := func(v string) string { return recase(caser.String, v) }

	ds := &model.Dataset{
		Path:        path,
		Fingerprint: Fingerprint(data),
		Columns:     cm.sources(),
	}

	for rowNum := 1; ; rowNum++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Path: path, Row: rowNum, Err: fmt.Errorf("%w: %w", ErrMalformedCSV, err)}
		}

		rec, err := l.parseRow(cm, row, rowNum, title, composeName)
		if err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				le.Path = path
			}
			l.logger.Debug("rejected row", "row", rowNum, "raw", strings.Join(row, ","))
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}

	if len(ds.Records) == 0 {
		return nil, &LoadError{Path: path, Err: ErrEmptyDataset}
	}

	l.logger.Info("dataset loaded",
		"path", path,
		"records", len(ds.Records),
		"fingerprint", ds.Fingerprint,
	)

	return ds, nil
}

// parseRow converts one CSV row into a Laureate.
func (l *Loader) parseRow(
	cm columnMap,
	row []string,
	rowNum int,
	title func(string) string,
	composeName func([]string) string,
) (model.Laureate, error) {
	rawYear := collapse(cm.value(row, ColumnYear))
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return model.Laureate{}, &LoadError{Column: ColumnYear, Row: rowNum, Err: fmt.Errorf("%w: %q", ErrInvalidYear, rawYear)}
	}
	if year < config.FirstPrizeYear {
		return model.Laureate{}, &LoadError{Column: ColumnYear, Row: rowNum,
			Err: fmt.Errorf("%w: %d is before %d", ErrInvalidYear, year, config.FirstPrizeYear)}
	}
	if l.maxYear > 0 && year > l.maxYear {
		return model.Laureate{}, &LoadError{Column: ColumnYear, Row: rowNum,
			Err: fmt.Errorf("%w: %d is after %d", ErrInvalidYear, year, l.maxYear)}
	}

	category := title(collapse(cm.value(row, ColumnCategory)))
	if category == "" {
		return model.Laureate{}, &LoadError{Column: ColumnCategory, Row: rowNum, Err: ErrMissingCategory}
	}

	sex := normalizeSex(title(collapse(cm.value(row, ColumnSex))))

	fullName := collapse(cm.value(row, ColumnFullName))
	if fullName == "" && composeName != nil {
		fullName = composeName(row)
	}

	laureateType := normalizeType(title(collapse(cm.value(row, ColumnLaureateType))))
	if laureateType == "" {
		laureateType = model.TypeOrganization
		if sex != "" {
			laureateType = model.TypeIndividual
		}
	}
	if laureateType == model.TypeOrganization {
		sex = ""
	}

	country := collapse(cm.value(row, ColumnBirthCountry))
	if country == "" {
		country = l.fallbackCountry
	}

	return model.Laureate{
		Year:         year,
		Category:     category,
		LaureateType: laureateType,
		FullName:     fullName,
		BirthCountry: country,
		Sex:          sex,
		Decade:       model.DecadeOf(year),
		Row:          rowNum,
	}, nil
}

// nameComposer returns a function building full_name from a given/family
// name column pair, or nil when full_name is mapped or no pair exists.
func (l *Loader) nameComposer(cm columnMap) func([]string) string {
	if cm.has(ColumnFullName) {
		return nil
	}
	for _, pair := range namePairs {
		given, okGiven := cm.lookup(pair[0])
		family, okFamily := cm.lookup(pair[1])
		if !okGiven || !okFamily {
			continue
		}
		l.logger.Debug("composing full name", "given", cm.headers[given], "family", cm.headers[family])
		return func(row []string) string {
			var parts []string
			if given < len(row) {
				parts = append(parts, row[given])
			}
			if family < len(row) {
				parts = append(parts, row[family])
			}
			return collapse(strings.Join(parts, " "))
		}
	}
	return nil
}

// collapse trims s and replaces internal whitespace runs with one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// recase title-cases s when it is entirely lower or upper case. Mixed-case
// values such as "Physiology or Medicine" are kept as written.
func recase(title func(string) string, s string) string {
	if s != strings.ToLower(s) && s != strings.ToUpper(s) {
		return s
	}
	return title(s)
}

// normalizeSex maps placeholder values to empty.
func normalizeSex(s string) string {
	switch s {
	case "Unknown", "N/A", "Na", "None":
		return ""
	default:
		return s
	}
}

// normalizeType maps spelling variants onto the two laureate types.
func normalizeType(s string) string {
	switch s {
	case "Individual", "Person":
		return model.TypeIndividual
	case "Organization", "Organisation", "Org":
		return model.TypeOrganization
	default:
		return s
	}
}

// Fingerprint returns the hex SHA3-256 digest of data.
func Fingerprint(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
