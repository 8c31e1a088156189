// Package idempotency deduplicates deposit references. Upstream payment
// collectors deliver webhooks at least once; a reference that was already
// consumed must not credit the ledger twice.
package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"treasury/pkg/platform/sentinel"
)

const (
	// Redis key prefix for consumed deposit references
	depositRefKeyPrefix = "treasury:depref:"

	// DefaultTTL bounds how long a reference stays reserved. Providers do
	// not redeliver webhooks beyond days, so expiry keeps the keyspace flat.
	DefaultTTL = 7 * 24 * time.Hour
)

// RedisStore is a Redis-backed reference registry. This is the
// production-recommended implementation for distributed deployments where
// multiple instances share deduplication state.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL overrides the reservation TTL.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore constructs a Redis-backed idempotency store.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Reserve atomically claims a reference. Returns sentinel.ErrAlreadyUsed when
// some earlier deposit consumed it. Uses SETNX so concurrent claims agree on
// exactly one winner.
func (s *RedisStore) Reserve(ctx context.Context, reference string) error {
	if reference == "" {
		return nil
	}
	ok, err := s.client.SetNX(ctx, depositRefKeyPrefix+reference, "1", s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}
