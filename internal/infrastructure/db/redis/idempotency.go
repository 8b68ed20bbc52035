package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultIdempotencyTTL bounds how long a key can be replayed.
	DefaultIdempotencyTTL = 24 * time.Hour

	idempotencyPrefix = "idempotency:jobs:"
	// pending marks a reserved key whose request has not finished yet.
	pending = ""
)

// IdempotencyStore maps Idempotency-Key values to the job they created.
// Key format: idempotency:jobs:<employer id>:<client key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key with SETNX. It returns false when another request
// already holds or completed it.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ok, err := s.client.SetNX(ctx, idempotencyPrefix+key, pending, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

// Resolve returns the job id recorded for key, or "" while it is pending.
func (s *IdempotencyStore) Resolve(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := s.client.Get(ctx, idempotencyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return pending, nil
		}
		return "", fmt.Errorf("idempotency resolve: %w", err)
	}
	return id, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key, resourceID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := s.client.Set(ctx, idempotencyPrefix+key, resourceID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a reservation so the client can retry after a failure.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := s.client.Del(ctx, idempotencyPrefix+key).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}
