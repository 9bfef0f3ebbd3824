package service

import (
	"testing"

	"realty-insights-backend/models"
)

func TestPickMetric(t *testing.T) {
	full := &models.Schema{
		Columns:        []string{"area", "year", "Total Sold - IGR", "Flat - Weighted Average Rate"},
		NumericColumns: []string{"year", "Total Sold - IGR", "Flat - Weighted Average Rate"},
	}
	noRate := &models.Schema{
		Columns:        []string{"area", "year", "total sold - igr"},
		NumericColumns: []string{"year", "total sold - igr"},
	}
	noSold := &models.Schema{
		Columns:        []string{"area", "year", "units", "weighted average rate"},
		NumericColumns: []string{"year", "units", "weighted average rate"},
	}
	bare := &models.Schema{
		Columns:        []string{"area", "units"},
		NumericColumns: []string{"units"},
	}
	textOnly := &models.Schema{
		Columns:        []string{"area", "note"},
		NumericColumns: []string{},
	}

	tests := []struct {
		name   string
		schema *models.Schema
		query  string
		want   string
		wantOK bool
	}{
		{"price keyword picks rate", full, "Wakad price", "Flat - Weighted Average Rate", true},
		{"appreciation keyword picks rate", full, "appreciation in Baner", "Flat - Weighted Average Rate", true},
		{"demand keyword picks sold", full, "Wakad demand", "Total Sold - IGR", true},
		{"sales keyword picks sold", full, "SALES in Aundh", "Total Sold - IGR", true},
		{"price without rate column falls through to numeric", noRate, "Wakad price", "year", true},
		{"demand without sold column falls back to rate", noSold, "demand in Wakad", "weighted average rate", true},
		{"no keyword prefers rate", full, "Tell me about Wakad", "Flat - Weighted Average Rate", true},
		{"no keyword without rate takes first numeric", bare, "Wakad", "units", true},
		{"nothing numeric", textOnly, "Wakad price", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickMetric(tt.schema, tt.query)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("PickMetric(%q) = (%q, %v), want (%q, %v)", tt.query, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPickMetricRateColumnOrderIndependent(t *testing.T) {
	schema := &models.Schema{
		Columns:        []string{"Weighted Average Rate", "area", "total sold", "year"},
		NumericColumns: []string{"Weighted Average Rate", "total sold", "year"},
	}
	if got, _ := PickMetric(schema, "price"); got != "Weighted Average Rate" {
		t.Errorf("got %q", got)
	}

	schema.Columns = []string{"year", "total sold", "area", "Weighted Average Rate"}
	if got, _ := PickMetric(schema, "price"); got != "Weighted Average Rate" {
		t.Errorf("got %q", got)
	}
}

func TestDefaultMetricRulesIndividually(t *testing.T) {
	schema := &models.Schema{
		Columns:        []string{"year", "total sold", "weighted average rate"},
		NumericColumns: []string{"year", "total sold", "weighted average rate"},
	}

	tests := []struct {
		rule      string
		query     string
		applies   bool
		wantCol   string
		resolveOK bool
	}{
		{"price keywords", "growth", true, "weighted average rate", true},
		{"price keywords", "demand", false, "weighted average rate", true},
		{"demand keywords", "trend", true, "total sold", true},
		{"demand keywords", "price", false, "total sold", true},
		{"rate fallback", "anything", true, "weighted average rate", true},
		{"numeric fallback", "anything", true, "year", true},
	}

	rules := make(map[string]MetricRule)
	for _, r := range DefaultMetricRules() {
		rules[r.Name] = r
	}

	for _, tt := range tests {
		rule, ok := rules[tt.rule]
		if !ok {
			t.Fatalf("missing rule %q", tt.rule)
		}
		if got := rule.Applies(tt.query); got != tt.applies {
			t.Errorf("%s.Applies(%q) = %v, want %v", tt.rule, tt.query, got, tt.applies)
		}
		col, ok := rule.Resolve(schema)
		if col != tt.wantCol || ok != tt.resolveOK {
			t.Errorf("%s.Resolve = (%q, %v), want (%q, %v)", tt.rule, col, ok, tt.wantCol, tt.resolveOK)
		}
	}
}

func TestSelectMetricCustomRules(t *testing.T) {
	schema := &models.Schema{Columns: []string{"a", "b"}, NumericColumns: []string{"a", "b"}}
	rules := []MetricRule{
		{Name: "b only", Applies: containsAny([]string{"bee"}), Resolve: firstColumnContaining("b")},
	}

	if got, ok := SelectMetric(rules, schema, "Bee please"); !ok || got != "b" {
		t.Errorf("got (%q, %v)", got, ok)
	}
	if _, ok := SelectMetric(rules, schema, "nothing"); ok {
		t.Error("no rule should apply")
	}
	if _, ok := SelectMetric(rules, nil, "bee"); ok {
		t.Error("nil schema should not resolve")
	}
}
