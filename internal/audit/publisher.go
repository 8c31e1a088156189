package audit

import (
	"context"
	"log/slog"
	"time"
)

// Store persists audit events. Append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByKind(ctx context.Context, kind Kind, limit int) ([]Event, error)
}

// Publisher captures structured audit events. Persistence is synchronous so
// the event is durable before the mutation's caller sees success; forwarding
// to external sinks (kafka) happens on a best-effort channel consumed by the
// Forwarder.
type Publisher struct {
	store  Store
	logger *slog.Logger
	outbox chan Event
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithOutboxSize overrides the forwarding buffer size.
func WithOutboxSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n > 0 {
			p.outbox = make(chan Event, n)
		}
	}
}

const defaultOutboxSize = 1024

// NewPublisher constructs a Publisher over the given store.
func NewPublisher(store Store, logger *slog.Logger, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:  store,
		logger: logger,
		outbox: make(chan Event, defaultOutboxSize),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit persists the event and enqueues it for forwarding. A full outbox drops
// the forwarded copy rather than blocking the mutation path; the store copy
// is the source of truth.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	select {
	case p.outbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit outbox full, dropping forwarded copy",
			"kind", event.Kind,
		)
	}
	return nil
}

// ListByKind exposes stored events for read models.
func (p *Publisher) ListByKind(ctx context.Context, kind Kind, limit int) ([]Event, error) {
	return p.store.ListByKind(ctx, kind, limit)
}

// Outbox returns the forwarding channel for a Forwarder to drain.
func (p *Publisher) Outbox() <-chan Event {
	return p.outbox
}
