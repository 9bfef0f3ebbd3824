package service

import (
	"strings"

	"realty-insights-backend/models"
)

const (
	rateColumnMarker = "weighted average rate"
	soldColumnMarker = "total sold"
)

var (
	priceKeywords  = []string{"price", "rate", "growth", "appreciation"}
	demandKeywords = []string{"demand", "trend", "sales", "sold"}
)

// MetricRule picks a metric column when its predicate holds for the query
type MetricRule struct {
	Name    string
	Applies func(query string) bool
	Resolve func(schema *models.Schema) (string, bool)
}

// DefaultMetricRules returns the metric rules in evaluation order
func DefaultMetricRules() []MetricRule {
	return []MetricRule{
		{
			Name:    "price keywords",
			Applies: containsAny(priceKeywords),
			Resolve: firstColumnContaining(rateColumnMarker),
		},
		{
			Name:    "demand keywords",
			Applies: containsAny(demandKeywords),
			Resolve: firstColumnContaining(soldColumnMarker),
		},
		{
			Name:    "rate fallback",
			Applies: always,
			Resolve: firstColumnContaining(rateColumnMarker),
		},
		{
			Name:    "numeric fallback",
			Applies: always,
			Resolve: firstNumericColumn,
		},
	}
}

var defaultMetricRules = DefaultMetricRules()

// PickMetric chooses the column to aggregate for a query
func PickMetric(schema *models.Schema, query string) (string, bool) {
	return SelectMetric(defaultMetricRules, schema, query)
}

// SelectMetric evaluates rules in order and returns the first resolved column.
// A rule whose predicate holds but whose column is absent falls through.
func SelectMetric(rules []MetricRule, schema *models.Schema, query string) (string, bool) {
	if schema == nil {
		return "", false
	}

	q := strings.ToLower(query)
	for _, rule := range rules {
		if !rule.Applies(q) {
			continue
		}
		if col, ok := rule.Resolve(schema); ok {
			return col, true
		}
	}
	return "", false
}

func containsAny(keywords []string) func(string) bool {
	return func(q string) bool {
		for _, k := range keywords {
			if strings.Contains(q, k) {
				return true
			}
		}
		return false
	}
}

func always(string) bool { return true }

func firstColumnContaining(marker string) func(*models.Schema) (string, bool) {
	return func(schema *models.Schema) (string, bool) {
		for _, col := range schema.Columns {
			if strings.Contains(strings.ToLower(col), marker) {
				return col, true
			}
		}
		return "", false
	}
}

func firstNumericColumn(schema *models.Schema) (string, bool) {
	if len(schema.NumericColumns) == 0 {
		return "", false
	}
	return schema.NumericColumns[0], true
}
