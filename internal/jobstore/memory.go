package jobstore

import (
	"context"
	"sync"
	"time"

	"mediagen/internal/domain"
)

type entry struct {
	state   domain.JobState
	expires time.Time
}

// MemoryStore is an in-process Store for tests and single-binary
// deployments without Redis. Expiry is checked lazily on read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Put(_ context.Context, jobID string, state domain.JobState, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jobID] = entry{state: state, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, jobID string) (domain.JobState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[jobID]
	if !ok || !s.now().Before(e.expires) {
		delete(s.entries, jobID)
		return domain.JobState{}, domain.ErrNotFound
	}
	return e.state, nil
}
