package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreWriteAndRemove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	key, err := store.Write(context.Background(), "generated/abc.jpeg", []byte("data"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if key != "generated/abc.jpeg" {
		t.Fatalf("unexpected key: %s", key)
	}

	full := filepath.Join(store.BasePath(), "generated", "abc.jpeg")
	if _, err := os.Stat(full); err != nil {
		t.Fatalf("stat written file: %v", err)
	}

	if err := store.Remove(key); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err: %v", err)
	}
	// Removing again must be a no-op.
	if err := store.Remove(key); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestFileStoreRejectsTraversalKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, key := range []string{"", "../escape", "a/../../b", "."} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("key %q should be rejected", key)
		}
	}
}

func TestFileStoreNormalizesKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	key, err := store.Write(context.Background(), "/generated//img.png", []byte("x"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if key != "generated/img.png" {
		t.Fatalf("unexpected normalized key: %s", key)
	}
}
