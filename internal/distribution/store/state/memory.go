// Package state persists the router's singleton governance aggregate.
package state

import (
	"context"
	"sync"

	"treasury/internal/distribution/models"
	"treasury/pkg/platform/sentinel"
)

// InMemory holds the router state under a mutex. The Execute callback runs
// with the lock held so validate-then-mutate is a single atomic step, same
// contract as the postgres store's FOR UPDATE transaction.
type InMemory struct {
	mu    sync.RWMutex
	state *models.RouterState
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

// Init seeds the aggregate. Fails with ErrConflict when already initialized.
func (s *InMemory) Init(_ context.Context, st *models.RouterState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil {
		return sentinel.ErrConflict
	}
	s.state = st.Clone()
	return nil
}

// Get returns a snapshot of the aggregate.
func (s *InMemory) Get(_ context.Context) (*models.RouterState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, sentinel.ErrNotFound
	}
	return s.state.Clone(), nil
}

// Execute runs check then apply under the store lock. A check failure leaves
// the aggregate untouched and returns the error unchanged so services keep
// their domain codes. Returns a snapshot of the committed state.
func (s *InMemory) Execute(_ context.Context, check func(*models.RouterState) error, apply func(*models.RouterState)) (*models.RouterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, sentinel.ErrNotFound
	}

	work := s.state.Clone()
	if err := check(work); err != nil {
		return nil, err
	}
	apply(work)
	s.state = work
	return work.Clone(), nil
}
