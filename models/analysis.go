package models

import (
	"bytes"
	"encoding/json"
	"math"
)

// AnalysisResult is the response of a single analysis request
type AnalysisResult struct {
	Summary   string      `json:"summary"`
	Chart     interface{} `json:"chart"`
	Table     []Row       `json:"table"`
	Narrative string      `json:"narrative,omitempty"`
}

// EmptyChart renders as {}
type EmptyChart struct{}

// TrendChart holds the per-year means of one location
type TrendChart struct {
	Years  []string `json:"years"`
	Values Series   `json:"values"`
	Metric string   `json:"metric"`
}

// ComparisonChart holds the per-year means of two locations over their common years
type ComparisonChart struct {
	Comparison string   `json:"comparison"`
	Loc1       string   `json:"loc1"`
	Loc2       string   `json:"loc2"`
	Years      []string `json:"years"`
	Loc1Values Series   `json:"loc1_values"`
	Loc2Values Series   `json:"loc2_values"`
	Metric     *string  `json:"metric"`
}

// Series is a list of aggregated values.
// Values that could not be computed (NaN, Inf) are encoded as null.
type Series []float64

// MarshalJSON implements json.Marshaler
func (s Series) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// NewEmptyResult builds a result with an empty chart and table
func NewEmptyResult(summary string) *AnalysisResult {
	return &AnalysisResult{
		Summary: summary,
		Chart:   EmptyChart{},
		Table:   []Row{},
	}
}
