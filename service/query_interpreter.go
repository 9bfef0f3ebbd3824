package service

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"realty-insights-backend/models"
)

// maxLocations is the most locations a query can reference
const maxLocations = 2

var yearSpanPattern = regexp.MustCompile(`(?i)(last|past)\s+(\d+)\s+years?`)

// ExtractLocations finds up to two known locations mentioned in the query.
//
// Candidates are the distinct text values of the first location-like column,
// in the order they first appear in the dataset. A candidate matches when its
// lower-cased form is a substring of the lower-cased query, so short names
// can match inside longer words.
func ExtractLocations(query string, ds *models.Dataset) []string {
	if ds == nil || len(ds.Schema.LocationColumns) == 0 {
		return []string{}
	}

	col := ds.Schema.LocationColumns[0]
	q := strings.ToLower(query)

	matched := make([]string, 0, maxLocations)
	seen := make(map[string]bool)
	for _, row := range ds.Rows {
		loc, ok := row[col].(string)
		if !ok || seen[loc] {
			continue
		}
		seen[loc] = true

		if strings.Contains(q, strings.ToLower(loc)) {
			matched = append(matched, loc)
			if len(matched) == maxLocations {
				break
			}
		}
	}

	return matched
}

// ExtractYearSpan parses "last N years" / "past N year" style lookbacks.
// Only the first match is used.
func ExtractYearSpan(query string) (int, bool) {
	m := yearSpanPattern.FindStringSubmatch(query)
	if m == nil {
		return 0, false
	}

	n, err := strconv.Atoi(m[2])
	if errors.Is(err, strconv.ErrRange) {
		// longer than any dataset, so every year is kept
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}
