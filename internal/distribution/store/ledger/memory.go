// Package ledger tracks the custodial balances held by a router, per asset.
package ledger

import (
	"context"
	"math"
	"sync"

	id "treasury/pkg/domain"
	"treasury/pkg/platform/sentinel"
)

// InMemory keeps balances in a map. Distribute holds the lock across the
// callback so the read-payout-zero sequence is atomic, mirroring the
// postgres store's row lock.
type InMemory struct {
	mu       sync.Mutex
	balances map[id.AssetID]int64
}

func NewInMemory() *InMemory {
	return &InMemory{balances: make(map[id.AssetID]int64)}
}

// Deposit credits the asset balance and returns the new total. Zero amounts
// are accepted as no-ops.
func (s *InMemory) Deposit(_ context.Context, asset id.AssetID, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount > math.MaxInt64-s.balances[asset] {
		return 0, sentinel.ErrInvalidState
	}
	s.balances[asset] += amount
	return s.balances[asset], nil
}

// Balance reads the held amount for an asset. Unknown assets read as zero.
func (s *InMemory) Balance(_ context.Context, asset id.AssetID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[asset], nil
}

// Distribute runs fn with the current total while holding the balance lock,
// then zeroes the balance. If fn returns an error the balance is unchanged:
// the whole payout aborts as one unit.
func (s *InMemory) Distribute(_ context.Context, asset id.AssetID, fn func(total int64) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.balances[asset]
	if err := fn(total); err != nil {
		return err
	}
	delete(s.balances, asset)
	return nil
}
