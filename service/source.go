package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"realty-insights-backend/storage"

	"github.com/klauspost/compress/zstd"
)

// DefaultSheetURL is the published CSV export of the price/demand sheet
const DefaultSheetURL = "https://docs.google.com/spreadsheets/d/1BPFvRBLAFFLyQ1EDJ4ogXt8HYCUXhM80/export?format=csv&gid=240339127"

// SheetFormat is the encoding of a fetched sheet
type SheetFormat string

const (
	FormatCSV  SheetFormat = "csv"
	FormatXLSX SheetFormat = "xlsx"
)

// SheetPayload is the raw content of a fetched sheet
type SheetPayload struct {
	Data   []byte
	Format SheetFormat
	Name   string
}

// SheetSource fetches the raw sheet
type SheetSource interface {
	Fetch(ctx context.Context) (*SheetPayload, error)
	Describe() string
}

// HTTPSource fetches the sheet from a fixed URL
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source for the given URL
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if url == "" {
		url = DefaultSheetURL
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the sheet
func (s *HTTPSource) Fetch(ctx context.Context) (*SheetPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: unexpected status %s: %s", ErrFetchFailed, resp.Status, strings.TrimSpace(string(b)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}

	return &SheetPayload{Data: data, Format: formatFromContentType(resp.Header.Get("Content-Type")), Name: "sheet"}, nil
}

// Describe returns the URL
func (s *HTTPSource) Describe() string {
	return s.url
}

// StorageSource reads the sheet from an object in storage (local or S3).
// Objects ending in .xlsx are decoded as workbooks, everything else as CSV.
// A trailing .zst (an archived snapshot) is decompressed first.
type StorageSource struct {
	store       storage.Storage
	storagePath string
}

// NewStorageSource creates a source reading storagePath from store
func NewStorageSource(store storage.Storage, storagePath string) *StorageSource {
	return &StorageSource{store: store, storagePath: storagePath}
}

// Fetch reads the object
func (s *StorageSource) Fetch(ctx context.Context) (*SheetPayload, error) {
	rc, err := s.store.Download(ctx, s.storagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if strings.HasSuffix(strings.ToLower(s.storagePath), ".zst") {
		dec, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: create decoder: %v", ErrFetchFailed, err)
		}
		defer dec.Close()
		r = dec
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("%w: read object: %v", ErrFetchFailed, err)
	}

	return &SheetPayload{
		Data:   buf.Bytes(),
		Format: formatFromName(s.storagePath),
		Name:   path.Base(strings.TrimSuffix(s.storagePath, ".zst")),
	}, nil
}

// Describe returns the storage path
func (s *StorageSource) Describe() string {
	return "storage:" + s.storagePath
}

func formatFromName(name string) SheetFormat {
	name = strings.TrimSuffix(strings.ToLower(name), ".zst")
	if strings.HasSuffix(name, ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

func formatFromContentType(contentType string) SheetFormat {
	if strings.Contains(contentType, "spreadsheetml") {
		return FormatXLSX
	}
	return FormatCSV
}

