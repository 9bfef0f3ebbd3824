package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

const zstdExt = ".zst"

// ZstdStorage compresses objects on upload and transparently decompresses
// them on download. Objects are stored with a ".zst" suffix.
type ZstdStorage struct {
	inner   Storage
	encoder *zstd.Encoder
}

// NewZstdStorage wraps a storage backend.
// Level follows 1 (fastest) to 4 (best compression); anything else uses the default.
func NewZstdStorage(inner Storage, level int) (*ZstdStorage, error) {
	encLevel := zstd.SpeedDefault
	switch level {
	case 1:
		encLevel = zstd.SpeedFastest
	case 3:
		encLevel = zstd.SpeedBetterCompression
	case 4:
		encLevel = zstd.SpeedBestCompression
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	return &ZstdStorage{inner: inner, encoder: encoder}, nil
}

// Upload compresses the data and stores it
func (s *ZstdStorage) Upload(ctx context.Context, objectID uuid.UUID, filename string, data io.Reader) (string, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("failed to read object: %w", err)
	}

	compressed := s.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2))
	return s.inner.Upload(ctx, objectID, filename+zstdExt, bytes.NewReader(compressed))
}

// Download retrieves and decompresses an object.
// Paths without the ".zst" suffix are returned as stored.
func (s *ZstdStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	rc, err := s.inner.Download(ctx, storagePath)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(storagePath, zstdExt) {
		return rc, nil
	}

	decoder, err := zstd.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &zstdReadCloser{decoder: decoder, src: rc}, nil
}

// Delete removes an object
func (s *ZstdStorage) Delete(ctx context.Context, storagePath string) error {
	return s.inner.Delete(ctx, storagePath)
}

// Close releases the encoder
func (s *ZstdStorage) Close() error {
	return s.encoder.Close()
}

type zstdReadCloser struct {
	decoder *zstd.Decoder
	src     io.ReadCloser
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.decoder.Read(p)
}

func (z *zstdReadCloser) Close() error {
	z.decoder.Close()
	return z.src.Close()
}
