package jobstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediagen/internal/domain"
)

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	state := domain.JobState{Status: domain.JobStatusCompleted, AttachmentID: 42}
	if err := store.Put(ctx, "abc123", state, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.JobStatusCompleted || got.AttachmentID != 42 {
		t.Fatalf("unexpected state: %+v", got)
	}
}

func TestMemoryStoreUnknownID(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreZeroTTLExpiresImmediately(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Put(ctx, "abc123", domain.JobState{Status: domain.JobStatusPending}, 0); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Get(ctx, "abc123"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStorePutResetsExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Put(ctx, "abc123", domain.JobState{Status: domain.JobStatusPending}, time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Overwrite near the end of the first window; the record must
	// survive past the original deadline.
	now = now.Add(59 * time.Minute)
	if err := store.Put(ctx, "abc123", domain.JobState{Status: domain.JobStatusProcessing}, time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}

	now = now.Add(30 * time.Minute)
	got, err := store.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("get after reset: %v", err)
	}
	if got.Status != domain.JobStatusProcessing {
		t.Fatalf("unexpected status: %s", got.Status)
	}
}
