package idempotency

import (
	"context"
	"sync"
	"time"

	"treasury/pkg/platform/sentinel"
)

// InMemoryStore tracks consumed references in a map. Expired entries are
// pruned opportunistically on Reserve; there is no background sweeper.
type InMemoryStore struct {
	mu   sync.Mutex
	seen map[string]time.Time // reference -> expiry
	ttl  time.Duration
}

func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &InMemoryStore{seen: make(map[string]time.Time), ttl: ttl}
}

// Reserve claims a reference, failing with sentinel.ErrAlreadyUsed when it
// was consumed within the TTL window.
func (s *InMemoryStore) Reserve(_ context.Context, reference string) error {
	if reference == "" {
		return nil
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.seen[reference]; ok {
		if now.Before(expiry) {
			return sentinel.ErrAlreadyUsed
		}
	}
	for ref, expiry := range s.seen {
		if !now.Before(expiry) {
			delete(s.seen, ref)
		}
	}
	s.seen[reference] = now.Add(s.ttl)
	return nil
}
