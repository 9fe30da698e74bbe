package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediagen/internal/domain"
	"mediagen/internal/storage"
)

type fakeInserter struct {
	att *domain.Attachment
	id  int64
	err error
}

func (f *fakeInserter) Insert(_ context.Context, att *domain.Attachment) (int64, error) {
	f.att = att
	if f.err != nil {
		return 0, f.err
	}
	att.ID = f.id
	return f.id, nil
}

// Minimal valid JPEG header so mime sniffing resolves to image/jpeg.
var jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 0x4a, 0x46, 0x49, 0x46, 0x00}

func TestSaveWritesFileAndRecordsAttachment(t *testing.T) {
	dir := t.TempDir()
	files, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	repo := &fakeInserter{id: 42}
	store := NewStore(files, repo)

	id, err := store.Save(context.Background(), jpegBytes)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id != 42 {
		t.Fatalf("attachment id = %d, want 42", id)
	}
	if repo.att.MIMEType != "image/jpeg" {
		t.Fatalf("mime = %q", repo.att.MIMEType)
	}
	if !strings.HasPrefix(repo.att.FileKey, "generated/generated-image-") {
		t.Fatalf("unexpected file key: %s", repo.att.FileKey)
	}
	if !strings.HasPrefix(repo.att.Title, "Generated Image ") {
		t.Fatalf("unexpected title: %s", repo.att.Title)
	}
	if _, err := os.Stat(filepath.Join(dir, repo.att.FileKey)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestSaveRemovesFileWhenInsertFails(t *testing.T) {
	dir := t.TempDir()
	files, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	repo := &fakeInserter{err: errors.New("insert boom")}
	store := NewStore(files, repo)

	_, err = store.Save(context.Background(), jpegBytes)
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	entries, globErr := filepath.Glob(filepath.Join(dir, "generated", "*"))
	if globErr != nil {
		t.Fatalf("glob: %v", globErr)
	}
	if len(entries) != 0 {
		t.Fatalf("partial file left behind: %v", entries)
	}
}

func TestSaveRejectsEmptyPayload(t *testing.T) {
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	store := NewStore(files, &fakeInserter{id: 1})
	if _, err := store.Save(context.Background(), nil); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}
