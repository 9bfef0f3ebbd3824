package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"realty-insights-backend/models"

	"golang.org/x/sync/singleflight"
)

var (
	ErrFetchFailed       = errors.New("failed to fetch sheet")
	ErrParseFailed       = errors.New("failed to parse sheet")
	ErrSourceNotSet      = errors.New("sheet source not set")
	ErrMissingYearColumn = errors.New("dataset has no year column")
)

// SnapshotArchiver stores a copy of every successfully fetched sheet
type SnapshotArchiver interface {
	Archive(ctx context.Context, source string, payload *SheetPayload, dataset *models.Dataset) error
}

// DatasetCache owns the loaded dataset. It fetches on first use and on forced
// refresh only; there is no expiry. Concurrent loads share a single fetch,
// and concurrent forced refreshes share another.
type DatasetCache struct {
	source   SheetSource
	archiver SnapshotArchiver

	mu      sync.RWMutex
	dataset *models.Dataset

	group singleflight.Group
}

// DatasetCacheOption is a functional option for DatasetCache
type DatasetCacheOption func(*DatasetCache)

// CacheWithArchiver archives every fetched sheet
func CacheWithArchiver(archiver SnapshotArchiver) DatasetCacheOption {
	return func(c *DatasetCache) {
		c.archiver = archiver
	}
}

// NewDatasetCache creates a cache over the given source
func NewDatasetCache(source SheetSource, opts ...DatasetCacheOption) *DatasetCache {
	c := &DatasetCache{source: source}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached dataset, loading it on first use
func (c *DatasetCache) Get(ctx context.Context) (*models.Dataset, error) {
	return c.Load(ctx, false)
}

// Load returns the cached dataset, or fetches a new one when nothing is cached
// or forceRefresh is set. A failed refresh keeps the previous dataset.
func (c *DatasetCache) Load(ctx context.Context, forceRefresh bool) (*models.Dataset, error) {
	if !forceRefresh {
		if ds := c.cached(); ds != nil {
			return ds, nil
		}
	}

	// a forced load must not join a fetch that started before it was requested
	key := "dataset"
	if forceRefresh {
		key = "refresh"
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if !forceRefresh {
			if ds := c.cached(); ds != nil {
				return ds, nil
			}
		}
		// the fetch is shared, so it must not die with the first caller's request
		return c.fetch(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Dataset), nil
}

// Invalidate drops the cached dataset; the next Get fetches again
func (c *DatasetCache) Invalidate() {
	c.mu.Lock()
	c.dataset = nil
	c.mu.Unlock()
}

// Cached returns the current dataset without loading
func (c *DatasetCache) Cached() (*models.Dataset, bool) {
	ds := c.cached()
	return ds, ds != nil
}

func (c *DatasetCache) cached() *models.Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataset
}

func (c *DatasetCache) fetch(ctx context.Context) (*models.Dataset, error) {
	if c.source == nil {
		return nil, ErrSourceNotSet
	}

	payload, err := c.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	ds, err := ParseSheet(payload)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.dataset = ds
	c.mu.Unlock()

	log.Printf("Loaded dataset from %s: %d rows, %d columns", c.source.Describe(), ds.Len(), len(ds.Schema.Columns))

	if c.archiver != nil {
		if err := c.archiver.Archive(ctx, c.source.Describe(), payload, ds); err != nil {
			log.Printf("Warning: Failed to archive dataset snapshot: %v", err)
		}
	}

	return ds, nil
}
