package dataset

import (
	"strings"
)

// Canonical column names.
const (
	ColumnYear         = "year"
	ColumnFullName     = "full_name"
	ColumnSex          = "sex"
	ColumnBirthCountry = "birth_country"
	ColumnCategory     = "category"
	ColumnLaureateType = "laureate_type"
)

// canonicalColumns is the order columns are resolved in.
var canonicalColumns = []string{
	ColumnYear,
	ColumnFullName,
	ColumnSex,
	ColumnBirthCountry,
	ColumnCategory,
	ColumnLaureateType,
}

// requiredColumns must map to a header or loading fails.
var requiredColumns = []string{ColumnYear, ColumnCategory, ColumnSex}

// namePairs are (given, family) header pairs used to compose full_name when
// no name column exists.
var namePairs = [][2]string{
	{"givenname", "familyname"},
	{"firstname", "surname"},
}

// normalizeHeader converts "Birth Country" -> "birth_country" and
// "bornCountry" -> "borncountry" so aliases match regardless of case.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// columnMap resolves canonical columns to header indexes.
type columnMap struct {
	index   map[string]int
	headers []string
}

// resolveColumns maps each canonical column to the first header matching one
// of its aliases, in alias order.
func resolveColumns(headers []string, aliases map[string][]string) columnMap {
	normalized := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, exists := normalized[key]; !exists {
			normalized[key] = i
		}
	}

	cm := columnMap{index: make(map[string]int), headers: headers}
	for _, canonical := range canonicalColumns {
		candidates := aliases[canonical]
		if len(candidates) == 0 {
			candidates = []string{canonical}
		}
		for _, alias := range candidates {
			if i, ok := normalized[normalizeHeader(alias)]; ok {
				cm.index[canonical] = i
				break
			}
		}
	}
	return cm
}

// lookup returns the header index for a normalized header name.
func (cm columnMap) lookup(name string) (int, bool) {
	for i, h := range cm.headers {
		if normalizeHeader(h) == name {
			return i, true
		}
	}
	return 0, false
}

// has reports whether canonical was mapped.
func (cm columnMap) has(canonical string) bool {
	_, ok := cm.index[canonical]
	return ok
}

// value returns the cell for canonical, or "" when it is unmapped.
func (cm columnMap) value(row []string, canonical string) string {
	i, ok := cm.index[canonical]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// sources returns canonical -> original header for the mapped columns.
func (cm columnMap) sources() map[string]string {
	out := make(map[string]string, len(cm.index))
	for canonical, i := range cm.index {
		out[canonical] = strings.TrimPrefix(strings.TrimSpace(cm.headers[i]), "\ufeff")
	}
	return out
}
