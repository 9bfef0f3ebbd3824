package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// YearColumn is the exact (case-sensitive) name of the year column
const YearColumn = "year"

// locationMarkers identify columns that hold a location name
var locationMarkers = []string{"location", "area", "locality"}

// Row represents a single sheet record.
// Absent cells are nil, numeric cells are float64, anything else is a string.
type Row map[string]interface{}

// Schema describes the columns of a loaded dataset
type Schema struct {
	Columns         []string `json:"columns" yaml:"columns"`
	LocationColumns []string `json:"location_columns" yaml:"location_columns"`
	YearColumn      string   `json:"year_column,omitempty" yaml:"year_column,omitempty"`
	NumericColumns  []string `json:"numeric_columns" yaml:"numeric_columns"`
}

// IsLocationColumn reports whether a column name looks like a location column
func IsLocationColumn(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range locationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// IsNumeric reports whether the column was inferred as numeric
func (s *Schema) IsNumeric(column string) bool {
	for _, c := range s.NumericColumns {
		if c == column {
			return true
		}
	}
	return false
}

// HasYear reports whether the dataset has a year column
func (s *Schema) HasYear() bool {
	return s.YearColumn != ""
}

// Dataset is an immutable, ordered set of rows sharing one schema
type Dataset struct {
	Schema   *Schema   `json:"schema"`
	Rows     []Row     `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// IsEmpty reports whether the dataset has no rows
func (d *Dataset) IsEmpty() bool {
	return d.Len() == 0
}

// Subset returns a dataset over the given rows sharing this dataset's schema
func (d *Dataset) Subset(rows []Row) *Dataset {
	return &Dataset{
		Schema:   d.Schema,
		Rows:     rows,
		LoadedAt: d.LoadedAt,
	}
}

// Year returns the numeric year of a row, if it has one
func (d *Dataset) Year(row Row) (float64, bool) {
	if !d.Schema.HasYear() {
		return 0, false
	}
	return NumericValue(row[d.Schema.YearColumn])
}

// MaxYear returns the largest year present in the dataset
func (d *Dataset) MaxYear() (float64, bool) {
	max, found := 0.0, false
	for _, row := range d.Rows {
		y, ok := d.Year(row)
		if !ok {
			continue
		}
		if !found || y > max {
			max, found = y, true
		}
	}
	return max, found
}

// NumericValue converts a cell into a float when possible
func NumericValue(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) {
			return 0, false
		}
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CellString renders a cell the way it is compared and labelled
func CellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return FormatNumber(val)
	default:
		return ""
	}
}

// FormatNumber renders a float in its shortest form (2020, 12.5)
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// TableRow copies a row for output, replacing absent cells with ""
func TableRow(row Row, columns []string) Row {
	out := make(Row, len(columns))
	for _, col := range columns {
		v := row[col]
		if v == nil {
			out[col] = ""
			continue
		}
		out[col] = v
	}
	return out
}
