package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"realty-insights-backend/models"

	"github.com/google/uuid"
)

var (
	ErrQueryRequired         = errors.New("query is required")
	ErrDatasetProviderNotSet = errors.New("dataset provider not set")
)

// DatasetProvider returns the current dataset
type DatasetProvider interface {
	Get(ctx context.Context) (*models.Dataset, error)
}

// QueryLogWriter persists answered queries
type QueryLogWriter interface {
	Create(ctx context.Context, entry *models.QueryLog) error
}

// Narrator turns an analysis result into a short prose paragraph
type Narrator interface {
	Narrate(ctx context.Context, query string, result *models.AnalysisResult) (string, error)
}

// AnalysisService answers natural-language questions about the dataset
type AnalysisService struct {
	datasets  DatasetProvider
	queryLogs QueryLogWriter
	narrator  Narrator
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithDatasetProvider sets the dataset provider
func WithDatasetProvider(provider DatasetProvider) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.datasets = provider
	}
}

// WithQueryLogRepository sets the query log repository
func WithQueryLogRepository(repo QueryLogWriter) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.queryLogs = repo
	}
}

// WithNarrator sets the narrator used when a request asks for narration
func WithNarrator(narrator Narrator) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.narrator = narrator
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeRequest represents a request to analyze a query
type AnalyzeRequest struct {
	Query   string
	Narrate bool
}

// AnalyzeResult represents the outcome of analyzing a query
type AnalyzeResult struct {
	Result    *models.AnalysisResult
	Locations []string
	YearSpan  *int
	Metric    string
}

// Analyze answers a query against the current dataset
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if req.Query == "" {
		return nil, ErrQueryRequired
	}
	if s.datasets == nil {
		return nil, ErrDatasetProviderNotSet
	}

	start := time.Now()

	ds, err := s.datasets.Get(ctx)
	if err != nil {
		return nil, err
	}

	result, err := AnalyzeDataset(ds, req.Query)
	if err != nil {
		return nil, err
	}

	if req.Narrate && s.narrator != nil {
		text, err := s.narrator.Narrate(ctx, req.Query, result.Result)
		if err != nil {
			log.Printf("Warning: Failed to narrate analysis: %v", err)
		} else {
			result.Result.Narrative = text
		}
	}

	s.recordQuery(ctx, req.Query, result, time.Since(start))

	return result, nil
}

// AnalyzeDataset runs one query against a dataset.
//
// The number of locations found in the query decides the shape of the answer:
// none gives an explanatory summary, one gives a per-year trend of that
// location, two give a side-by-side comparison over their common years.
func AnalyzeDataset(ds *models.Dataset, query string) (*AnalyzeResult, error) {
	locations := ExtractLocations(query, ds)
	out := &AnalyzeResult{Locations: locations}

	if len(locations) == 0 {
		out.Result = models.NewEmptyResult("No known location found in your query.")
		return out, nil
	}

	if !ds.Schema.HasYear() {
		return nil, ErrMissingYearColumn
	}

	span, hasSpan := ExtractYearSpan(query)
	// a zero span means no restriction
	hasSpan = hasSpan && span > 0
	if hasSpan {
		out.YearSpan = &span
	}

	w := yearWindow{enabled: hasSpan}
	if hasSpan {
		w.maxYear, w.hasMax = ds.MaxYear()
		w.fromYear = w.maxYear - float64(span) + 1
	}

	if len(locations) == 1 {
		analyzeSingle(ds, query, locations[0], span, w, out)
	} else {
		analyzeComparison(ds, query, locations[0], locations[1], span, w, out)
	}
	return out, nil
}

// yearWindow restricts rows to the most recent years of the full dataset
type yearWindow struct {
	enabled  bool
	hasMax   bool
	maxYear  float64
	fromYear float64
}

func (w yearWindow) apply(ds *models.Dataset) *models.Dataset {
	if !w.enabled {
		return ds
	}
	if !w.hasMax {
		return ds.Subset([]models.Row{})
	}
	return RestrictToRecentYears(ds, w.fromYear)
}

func analyzeSingle(ds *models.Dataset, query, area string, span int, w yearWindow, out *AnalyzeResult) {
	areaDs := FilterArea(ds, area)
	if areaDs.IsEmpty() {
		out.Result = models.NewEmptyResult(fmt.Sprintf("No data found for %s.", area))
		return
	}

	areaDs = w.apply(areaDs)

	// metric is chosen from the filtered rows here, unlike the comparison path
	metric, found := PickMetric(areaDs.Schema, query)

	var chart interface{} = models.EmptyChart{}
	if found {
		groups := groupByYear(areaDs)
		trend := &models.TrendChart{
			Years:  make([]string, 0, len(groups)),
			Values: make(models.Series, 0, len(groups)),
			Metric: metric,
		}
		for _, g := range groups {
			trend.Years = append(trend.Years, models.FormatNumber(g.year))
			trend.Values = append(trend.Values, meanOf(g.rows, metric))
		}
		chart = trend
		out.Metric = metric
	}

	summary := fmt.Sprintf("Analysis for %s.", area)
	if w.enabled {
		summary += fmt.Sprintf(" Showing last %d years.", span)
	}

	table := make([]models.Row, 0, areaDs.Len())
	for _, row := range areaDs.Rows {
		table = append(table, models.TableRow(row, ds.Schema.Columns))
	}

	out.Result = &models.AnalysisResult{
		Summary: summary,
		Chart:   chart,
		Table:   table,
	}
}

func analyzeComparison(ds *models.Dataset, query, loc1, loc2 string, span int, w yearWindow, out *AnalyzeResult) {
	ds1 := FilterArea(ds, loc1)
	ds2 := FilterArea(ds, loc2)
	if ds1.IsEmpty() || ds2.IsEmpty() {
		out.Result = models.NewEmptyResult(fmt.Sprintf("Not enough data to compare %s and %s.", loc1, loc2))
		return
	}

	ds1 = w.apply(ds1)
	ds2 = w.apply(ds2)

	// metric is chosen from the full dataset here, unlike the single-location path
	metric, found := PickMetric(ds.Schema, query)

	groups1 := groupByYear(ds1)
	rows2 := make(map[float64][]models.Row)
	for _, g := range groupByYear(ds2) {
		rows2[g.year] = g.rows
	}

	chart := &models.ComparisonChart{
		Comparison: fmt.Sprintf("%s vs %s", loc1, loc2),
		Loc1:       loc1,
		Loc2:       loc2,
		Years:      []string{},
		Loc1Values: models.Series{},
		Loc2Values: models.Series{},
	}
	if found {
		chart.Metric = &metric
		out.Metric = metric
	}

	for _, g := range groups1 {
		other, ok := rows2[g.year]
		if !ok {
			continue
		}
		chart.Years = append(chart.Years, models.FormatNumber(g.year))
		if !found {
			chart.Loc1Values = append(chart.Loc1Values, math.NaN())
			chart.Loc2Values = append(chart.Loc2Values, math.NaN())
			continue
		}
		chart.Loc1Values = append(chart.Loc1Values, meanOf(g.rows, metric))
		chart.Loc2Values = append(chart.Loc2Values, meanOf(other, metric))
	}

	summary := fmt.Sprintf("Comparison of %s and %s", loc1, loc2)
	if w.enabled {
		summary += fmt.Sprintf(" over the last %d years.", span)
	}

	out.Result = &models.AnalysisResult{
		Summary: summary,
		Chart:   chart,
		Table:   []models.Row{},
	}
}

// meanOf averages the numeric cells of a column, NaN when there are none
func meanOf(rows []models.Row, col string) float64 {
	sum, n := 0.0, 0
	for _, row := range rows {
		v, ok := row[col].(float64)
		if !ok || math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func (s *AnalysisService) recordQuery(ctx context.Context, query string, result *AnalyzeResult, elapsed time.Duration) {
	if s.queryLogs == nil {
		return
	}

	entry := &models.QueryLog{
		ID:         uuid.New(),
		Query:      query,
		Locations:  result.Locations,
		YearSpan:   result.YearSpan,
		Summary:    result.Result.Summary,
		DurationMs: elapsed.Milliseconds(),
	}
	if result.Metric != "" {
		metric := result.Metric
		entry.Metric = &metric
	}

	if err := s.queryLogs.Create(ctx, entry); err != nil {
		log.Printf("Warning: Failed to record query log: %v", err)
	}
}
