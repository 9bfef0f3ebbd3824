package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"realty-insights-backend/models"
	"realty-insights-backend/storage"

	"github.com/google/uuid"
)

// SnapshotStore persists snapshot metadata
type SnapshotStore interface {
	Create(ctx context.Context, snapshot *models.DatasetSnapshot) error
	ListRecent(ctx context.Context, limit int) ([]*models.DatasetSnapshot, error)
}

// SnapshotService archives fetched sheets to storage and records them
type SnapshotService struct {
	store storage.Storage
	repo  SnapshotStore
}

// NewSnapshotService creates a snapshot service; repo may be nil
func NewSnapshotService(store storage.Storage, repo SnapshotStore) *SnapshotService {
	return &SnapshotService{store: store, repo: repo}
}

// Archive uploads the raw sheet and records its metadata
func (s *SnapshotService) Archive(ctx context.Context, source string, payload *SheetPayload, dataset *models.Dataset) error {
	if s.store == nil {
		return errors.New("snapshot storage not set")
	}

	id := uuid.New()
	storagePath, err := s.store.Upload(ctx, id, "sheet."+string(payload.Format), bytes.NewReader(payload.Data))
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}

	if s.repo == nil {
		return nil
	}

	snapshot := &models.DatasetSnapshot{
		ID:          id,
		Source:      source,
		StoragePath: storagePath,
		RowCount:    dataset.Len(),
		ColumnCount: len(dataset.Schema.Columns),
		SizeBytes:   int64(len(payload.Data)),
		FetchedAt:   dataset.LoadedAt,
	}
	if err := s.repo.Create(ctx, snapshot); err != nil {
		// Try to clean up uploaded object
		s.store.Delete(ctx, storagePath)
		return fmt.Errorf("record snapshot: %w", err)
	}

	return nil
}

// ListSnapshots returns the most recent snapshot records, newest first
func (s *SnapshotService) ListSnapshots(ctx context.Context, limit int) ([]*models.DatasetSnapshot, error) {
	if s == nil || s.repo == nil {
		return nil, ErrRepositoryNotSet
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
