package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mediagen/internal/domain"
)

const keyPrefix = "imagejob:"

// RedisStore keeps job state as JSON values with a server-side TTL.
// SET with EX is atomic for a single key, which is all the orchestrator
// needs: every write is a full overwrite by the job's current owner.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, jobID string, state domain.JobState, ttl time.Duration) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("jobstore: encode state: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+jobID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("jobstore: put %s: %w", jobID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, jobID string) (domain.JobState, error) {
	raw, err := s.client.Get(ctx, keyPrefix+jobID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.JobState{}, domain.ErrNotFound
		}
		return domain.JobState{}, fmt.Errorf("jobstore: get %s: %w", jobID, err)
	}
	var state domain.JobState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.JobState{}, fmt.Errorf("jobstore: decode state: %w", err)
	}
	return state, nil
}
