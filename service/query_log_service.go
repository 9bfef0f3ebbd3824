package service

import (
	"context"
	"errors"

	"realty-insights-backend/models"
	"realty-insights-backend/repository"

	"github.com/google/uuid"
)

var (
	ErrQueryLogNotFound = errors.New("query log not found")
	ErrRepositoryNotSet = errors.New("repository not set")
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// QueryLogStore reads and writes query log entries
type QueryLogStore interface {
	QueryLogWriter
	GetByID(ctx context.Context, id uuid.UUID) (*models.QueryLog, error)
	ListRecent(ctx context.Context, limit int) ([]*models.QueryLog, error)
}

// QueryLogService exposes the history of answered queries
type QueryLogService struct {
	repo QueryLogStore
}

// NewQueryLogService creates a query log service; repo may be nil when no database is configured
func NewQueryLogService(repo QueryLogStore) *QueryLogService {
	return &QueryLogService{repo: repo}
}

// Enabled reports whether a repository is configured
func (s *QueryLogService) Enabled() bool {
	return s != nil && s.repo != nil
}

// ListQueryLogsRequest represents a request to list recent query logs
type ListQueryLogsRequest struct {
	Limit int
}

// ListQueryLogsResult represents the result of listing query logs
type ListQueryLogsResult struct {
	Entries []*models.QueryLog
}

// ListQueryLogs returns the most recent query logs, newest first
func (s *QueryLogService) ListQueryLogs(ctx context.Context, req ListQueryLogsRequest) (*ListQueryLogsResult, error) {
	if !s.Enabled() {
		return nil, ErrRepositoryNotSet
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &ListQueryLogsResult{Entries: entries}, nil
}

// GetQueryLogRequest represents a request to get a query log
type GetQueryLogRequest struct {
	ID uuid.UUID
}

// GetQueryLogResult represents the result of getting a query log
type GetQueryLogResult struct {
	Entry *models.QueryLog
}

// GetQueryLog retrieves a query log by ID
func (s *QueryLogService) GetQueryLog(ctx context.Context, req GetQueryLogRequest) (*GetQueryLogResult, error) {
	if !s.Enabled() {
		return nil, ErrRepositoryNotSet
	}

	entry, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQueryLogNotFound
		}
		return nil, err
	}
	return &GetQueryLogResult{Entry: entry}, nil
}
