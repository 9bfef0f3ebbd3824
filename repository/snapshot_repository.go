package repository

import (
	"context"

	"realty-insights-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotRepository handles database operations for dataset snapshots
type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create creates a new snapshot record
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *models.DatasetSnapshot) error {
	query := `
		INSERT INTO dataset_snapshots (
			id, source, storage_path, row_count, column_count, size_bytes, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(
		ctx, query,
		snapshot.ID,
		snapshot.Source,
		snapshot.StoragePath,
		snapshot.RowCount,
		snapshot.ColumnCount,
		snapshot.SizeBytes,
		snapshot.FetchedAt,
	)
	return err
}

// ListRecent retrieves the most recent snapshots
func (r *SnapshotRepository) ListRecent(ctx context.Context, limit int) ([]*models.DatasetSnapshot, error) {
	query := `
		SELECT id, source, storage_path, row_count, column_count, size_bytes, fetched_at
		FROM dataset_snapshots
		ORDER BY fetched_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]*models.DatasetSnapshot, 0)
	for rows.Next() {
		snapshot := &models.DatasetSnapshot{}
		err := rows.Scan(
			&snapshot.ID,
			&snapshot.Source,
			&snapshot.StoragePath,
			&snapshot.RowCount,
			&snapshot.ColumnCount,
			&snapshot.SizeBytes,
			&snapshot.FetchedAt,
		)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}
