package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenCooldownStore rate-limits ticket opening per user. SetNX makes the
// check-and-set atomic across process instances.
type OpenCooldownStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewOpenCooldownStore creates a store namespaced by prefix
// (e.g. "ticket:cooldown:") with the configured cooldown TTL.
func NewOpenCooldownStore(client *redis.Client, prefix string, ttl time.Duration) *OpenCooldownStore {
	return &OpenCooldownStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *OpenCooldownStore) key(userID uint) string {
	return s.prefix + strconv.FormatUint(uint64(userID), 10)
}

// TryAcquire marks the user as cooling down. Returns false when the user is
// already within a cooldown window.
func (s *OpenCooldownStore) TryAcquire(ctx context.Context, userID uint) (bool, error) {
	if s.ttl <= 0 {
		return true, nil
	}

	ok, err := s.client.SetNX(ctx, s.key(userID), time.Now().UTC().Unix(), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire open cooldown: %w", err)
	}
	return ok, nil
}

// Release clears the user's cooldown, used by the compensating cleanup when
// ticket creation fails after the cooldown was set.
func (s *OpenCooldownStore) Release(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to release open cooldown: %w", err)
	}
	return nil
}
