package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}
	ctx := context.Background()

	id := uuid.New()
	path, err := store.Upload(ctx, id, "price sheet.csv", strings.NewReader("area,year\nX,2020\n"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !strings.Contains(path, id.String()) || !strings.HasSuffix(path, "_price_sheet.csv") {
		t.Errorf("unexpected storage path %q", path)
	}

	rc, err := store.Download(ctx, path)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if string(got) != "area,year\nX,2020\n" {
		t.Errorf("Download returned %q", got)
	}

	if err := store.Delete(ctx, path); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Download(ctx, path); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound after delete, got %v", err)
	}
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}
	if _, err := store.Download(context.Background(), "../../etc/passwd"); err == nil {
		t.Fatal("expected error for path outside the storage root")
	}
}

func TestGenerateStoragePath(t *testing.T) {
	id := uuid.MustParse("0b8f8a54-3c1e-4c5f-9d0e-6a1f2b3c4d5e")
	now := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	got := generateStoragePath(id, "my sheet.csv", now)
	want := "snapshots/2025/03/07/0b8f8a54-3c1e-4c5f-9d0e-6a1f2b3c4d5e_my_sheet.csv"
	if got != want {
		t.Errorf("generateStoragePath = %q, want %q", got, want)
	}
}

func TestZstdStorageRoundTrip(t *testing.T) {
	local, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}
	store, err := NewZstdStorage(local, 3)
	if err != nil {
		t.Fatalf("NewZstdStorage failed: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	payload := bytes.Repeat([]byte("Final Location,year,Weighted Average Rate\nWakad,2021,7400\n"), 200)
	path, err := store.Upload(ctx, uuid.New(), "sheet.csv", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !strings.HasSuffix(path, ".csv.zst") {
		t.Errorf("expected .zst suffix, got %q", path)
	}

	raw, err := local.Download(ctx, path)
	if err != nil {
		t.Fatalf("raw Download failed: %v", err)
	}
	compressed, _ := io.ReadAll(raw)
	raw.Close()
	if len(compressed) >= len(payload) {
		t.Errorf("compression ineffective: original=%d, compressed=%d", len(payload), len(compressed))
	}

	rc, err := store.Download(ctx, path)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("decompressed payload differs from original")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"a.csv":     "text/csv",
		"a.XLSX":    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"a.csv.zst": "application/zstd",
		"a.bin":     "application/octet-stream",
	}
	for name, want := range tests {
		if got := getContentType(name); got != want {
			t.Errorf("getContentType(%q) = %q, want %q", name, got, want)
		}
	}
}
