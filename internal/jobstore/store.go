package jobstore

import (
	"context"
	"time"

	"mediagen/internal/domain"
)

// DefaultTTL is the retention window for a job record. Every write
// resets the window; after it elapses lookups report not found.
const DefaultTTL = time.Hour

// Store is the single source of truth for in-flight and recently
// completed generation jobs. Put is a full overwrite of the record and
// resets its expiry; Get returns domain.ErrNotFound for unknown or
// expired ids.
type Store interface {
	Put(ctx context.Context, jobID string, state domain.JobState, ttl time.Duration) error
	Get(ctx context.Context, jobID string) (domain.JobState, error)
}
