package models

import (
	"time"

	"github.com/google/uuid"
)

// DatasetSnapshot records an archived copy of a fetched sheet
type DatasetSnapshot struct {
	ID          uuid.UUID `json:"id"`
	Source      string    `json:"source"`
	StoragePath string    `json:"storage_path"`
	RowCount    int       `json:"row_count"`
	ColumnCount int       `json:"column_count"`
	SizeBytes   int64     `json:"size_bytes"`
	FetchedAt   time.Time `json:"fetched_at"`
}
