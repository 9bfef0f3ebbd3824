package repository

import (
	"context"
	"errors"

	"realty-insights-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// QueryLogRepository handles database operations for query logs
type QueryLogRepository struct {
	db *pgxpool.Pool
}

// NewQueryLogRepository creates a new query log repository
func NewQueryLogRepository(db *pgxpool.Pool) *QueryLogRepository {
	return &QueryLogRepository{db: db}
}

// Create inserts a query log entry
func (r *QueryLogRepository) Create(ctx context.Context, entry *models.QueryLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Locations == nil {
		entry.Locations = []string{}
	}

	query := `
		INSERT INTO query_logs (
			id, query, locations, year_span, metric, summary, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		entry.ID,
		entry.Query,
		entry.Locations,
		entry.YearSpan,
		entry.Metric,
		entry.Summary,
		entry.DurationMs,
	).Scan(&entry.CreatedAt)
}

// GetByID retrieves a query log entry by ID
func (r *QueryLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.QueryLog, error) {
	entry := &models.QueryLog{}
	query := `
		SELECT id, query, locations, year_span, metric, summary, duration_ms, created_at
		FROM query_logs
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.Query,
		&entry.Locations,
		&entry.YearSpan,
		&entry.Metric,
		&entry.Summary,
		&entry.DurationMs,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return entry, nil
}

// ListRecent retrieves the most recent query log entries
func (r *QueryLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.QueryLog, error) {
	query := `
		SELECT id, query, locations, year_span, metric, summary, duration_ms, created_at
		FROM query_logs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.QueryLog, 0)
	for rows.Next() {
		entry := &models.QueryLog{}
		err := rows.Scan(
			&entry.ID,
			&entry.Query,
			&entry.Locations,
			&entry.YearSpan,
			&entry.Metric,
			&entry.Summary,
			&entry.DurationMs,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
