package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"realty-insights-backend/models"
	"realty-insights-backend/storage"
)

type recordingSnapshotStore struct {
	created []*models.DatasetSnapshot
	err     error
}

func (r *recordingSnapshotStore) Create(ctx context.Context, snapshot *models.DatasetSnapshot) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, snapshot)
	return nil
}

func (r *recordingSnapshotStore) ListRecent(ctx context.Context, limit int) ([]*models.DatasetSnapshot, error) {
	if limit < len(r.created) {
		return r.created[:limit], nil
	}
	return r.created, nil
}

func newArchive(t *testing.T) storage.Storage {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	archive, err := storage.NewZstdStorage(local, 3)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { archive.Close() })
	return archive
}

func TestSnapshotServiceArchive(t *testing.T) {
	ctx := context.Background()
	store := newArchive(t)
	repo := &recordingSnapshotStore{}
	svc := NewSnapshotService(store, repo)

	payload := &SheetPayload{Data: []byte(marketCSV), Format: FormatCSV}
	ds := mustParseCSV(t, marketCSV)

	if err := svc.Archive(ctx, "https://example.com/sheet.csv", payload, ds); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("records = %d, want 1", len(repo.created))
	}

	snap := repo.created[0]
	if snap.RowCount != 6 || snap.ColumnCount != 7 || snap.SizeBytes != int64(len(marketCSV)) {
		t.Errorf("snapshot = %+v", snap)
	}
	if !strings.HasSuffix(snap.StoragePath, "_sheet.csv.zst") {
		t.Errorf("storage path = %q", snap.StoragePath)
	}

	rc, err := store.Download(ctx, snap.StoragePath)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != marketCSV {
		t.Error("archived bytes differ from the fetched sheet")
	}

	list, err := svc.ListSnapshots(ctx, 0)
	if err != nil || len(list) != 1 {
		t.Errorf("ListSnapshots = %v, %v", list, err)
	}
}

func TestSnapshotServiceCleansUpOnRecordFailure(t *testing.T) {
	ctx := context.Background()
	store := newArchive(t)
	repo := &recordingSnapshotStore{err: errors.New("insert failed")}
	svc := NewSnapshotService(store, repo)

	payload := &SheetPayload{Data: []byte(marketCSV), Format: FormatCSV}
	if err := svc.Archive(ctx, "fake", payload, mustParseCSV(t, marketCSV)); err == nil {
		t.Fatal("expected an error")
	}
}

func TestSnapshotServiceWithoutRepository(t *testing.T) {
	svc := NewSnapshotService(newArchive(t), nil)
	payload := &SheetPayload{Data: []byte(marketCSV), Format: FormatCSV}

	if err := svc.Archive(context.Background(), "fake", payload, mustParseCSV(t, marketCSV)); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if _, err := svc.ListSnapshots(context.Background(), 10); !errors.Is(err, ErrRepositoryNotSet) {
		t.Errorf("err = %v, want ErrRepositoryNotSet", err)
	}

	var nilSvc *SnapshotService
	if _, err := nilSvc.ListSnapshots(context.Background(), 10); !errors.Is(err, ErrRepositoryNotSet) {
		t.Errorf("nil service err = %v, want ErrRepositoryNotSet", err)
	}
}
