package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"realty-insights-backend/models"

	"github.com/xuri/excelize/v2"
)

// naTokens are cell values treated as missing
var naTokens = map[string]bool{
	"":         true,
	"NA":       true,
	"N/A":      true,
	"n/a":      true,
	"NaN":      true,
	"nan":      true,
	"-NaN":     true,
	"-nan":     true,
	"NULL":     true,
	"null":     true,
	"None":     true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"<NA>":     true,
}

// ParseSheet decodes a fetched sheet into a dataset with an inferred schema
func ParseSheet(payload *SheetPayload) (*models.Dataset, error) {
	var records [][]string
	var err error

	switch payload.Format {
	case FormatXLSX:
		records, err = readXLSX(payload.Data)
	default:
		records, err = readCSV(payload.Data)
	}
	if err != nil {
		return nil, err
	}

	return BuildDataset(records)
}

// ParseCSV decodes CSV text into a dataset
func ParseCSV(data []byte) (*models.Dataset, error) {
	return ParseSheet(&SheetPayload{Data: data, Format: FormatCSV})
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return records, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrParseFailed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParseFailed)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrParseFailed, sheets[0], err)
	}
	return rows, nil
}

// BuildDataset types the records (header first) column by column and infers the schema.
// A column is numeric when every non-missing cell parses as a number.
func BuildDataset(records [][]string) (*models.Dataset, error) {
	records = dropBlankRecords(records)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrParseFailed)
	}

	columns := normalizeHeaders(records[0])
	width := len(columns)

	body := make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) > width {
			for _, extra := range rec[width:] {
				if strings.TrimSpace(extra) != "" {
					return nil, fmt.Errorf("%w: row %d has %d fields, expected %d", ErrParseFailed, i+1, len(rec), width)
				}
			}
			rec = rec[:width]
		}
		body = append(body, rec)
	}

	numeric := make([]bool, width)
	for j := range columns {
		numeric[j] = isNumericColumn(body, j)
	}

	rows := make([]models.Row, len(body))
	for i, rec := range body {
		row := make(models.Row, width)
		for j, col := range columns {
			row[col] = typedCell(cellAt(rec, j), numeric[j])
		}
		rows[i] = row
	}

	return &models.Dataset{
		Schema:   InferSchema(columns, numeric),
		Rows:     rows,
		LoadedAt: time.Now(),
	}, nil
}

// InferSchema classifies columns once so downstream code never rescans names
func InferSchema(columns []string, numeric []bool) *models.Schema {
	schema := &models.Schema{
		Columns:         columns,
		LocationColumns: []string{},
		NumericColumns:  []string{},
	}

	for i, col := range columns {
		if models.IsLocationColumn(col) {
			schema.LocationColumns = append(schema.LocationColumns, col)
		}
		if col == models.YearColumn {
			schema.YearColumn = col
		}
		if i < len(numeric) && numeric[i] {
			schema.NumericColumns = append(schema.NumericColumns, col)
		}
	}

	return schema
}

// normalizeHeaders trims names, names blank headers and de-duplicates repeats
func normalizeHeaders(header []string) []string {
	columns := make([]string, len(header))
	used := make(map[string]bool, len(header))
	repeats := make(map[string]int)

	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		candidate := name
		for used[candidate] {
			repeats[name]++
			candidate = name + "." + strconv.Itoa(repeats[name])
		}
		used[candidate] = true
		columns[i] = candidate
	}

	return columns
}

func dropBlankRecords(records [][]string) [][]string {
	out := records[:0:0]
	for _, rec := range records {
		blank := true
		for _, v := range rec {
			if strings.TrimSpace(v) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}

func isNumericColumn(records [][]string, j int) bool {
	for _, rec := range records {
		v := cellAt(rec, j)
		if naTokens[v] {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return false
		}
	}
	return true
}

func typedCell(v string, numeric bool) interface{} {
	if naTokens[v] {
		return nil
	}
	if numeric {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		// NaN and Inf have no JSON form
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}
	return v
}

func cellAt(rec []string, j int) string {
	if j < len(rec) {
		return rec[j]
	}
	return ""
}
