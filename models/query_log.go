package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryLog records one answered analysis query
type QueryLog struct {
	ID         uuid.UUID `json:"id"`
	Query      string    `json:"query"`
	Locations  []string  `json:"locations"`
	YearSpan   *int      `json:"year_span,omitempty"`
	Metric     *string   `json:"metric,omitempty"`
	Summary    string    `json:"summary"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
