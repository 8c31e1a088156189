// Package transfer implements the outbound value-transfer gateway port.
package transfer

import (
	"context"
	"sync"

	"treasury/internal/distribution/models"
	id "treasury/pkg/domain"
)

// Record is one executed transfer.
type Record struct {
	AssetID     id.AssetID
	Destination models.Destination
	Amount      int64
}

// InMemoryGateway records transfers instead of moving real value. Used by
// tests and single-node dev deployments; production wires the payment
// provider adapter here instead.
type InMemoryGateway struct {
	mu      sync.Mutex
	records []Record
	fail    map[models.Destination]error
}

func NewInMemoryGateway() *InMemoryGateway {
	return &InMemoryGateway{fail: make(map[models.Destination]error)}
}

// Transfer settles the batch all-or-nothing: every destination is checked
// against the injected failures before any record is written, so a failing
// leg leaves no destination paid.
func (g *InMemoryGateway) Transfer(_ context.Context, asset id.AssetID, payouts []models.Payout) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range payouts {
		if err := g.fail[p.Destination]; err != nil {
			return err
		}
	}
	for _, p := range payouts {
		g.records = append(g.records, Record{AssetID: asset, Destination: p.Destination, Amount: p.Amount})
	}
	return nil
}

// FailDestination makes every transfer to dest fail with err. Pass nil to
// clear.
func (g *InMemoryGateway) FailDestination(dest models.Destination, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.fail, dest)
		return
	}
	g.fail[dest] = err
}

// Records returns a copy of all executed transfers.
func (g *InMemoryGateway) Records() []Record {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Record, len(g.records))
	copy(out, g.records)
	return out
}

// TotalTo sums everything transferred to a destination for an asset.
func (g *InMemoryGateway) TotalTo(asset id.AssetID, dest models.Destination) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	var total int64
	for _, r := range g.records {
		if r.AssetID == asset && r.Destination == dest {
			total += r.Amount
		}
	}
	return total
}
