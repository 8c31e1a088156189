package audit

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Topic names, one per category. Consumers apply category-appropriate
// retention downstream.
const (
	TopicCompliance = "treasury.audit.compliance"
	TopicSecurity   = "treasury.audit.security"
	TopicOperations = "treasury.audit.operations"
)

// Topics lists every audit topic for startup bootstrap.
func Topics() []string {
	return []string{TopicCompliance, TopicSecurity, TopicOperations}
}

func topicFor(category EventCategory) string {
	switch category {
	case CategoryCompliance:
		return TopicCompliance
	case CategorySecurity:
		return TopicSecurity
	default:
		return TopicOperations
	}
}

// Sink publishes a serialized event to an external system.
type Sink interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Forwarder drains a publisher's outbox into the sink. Forwarding is
// best-effort: a failed publish is logged, never retried here, because the
// store copy written by the Publisher remains the source of truth.
type Forwarder struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewForwarder(sink Sink, inbox <-chan Event, logger *slog.Logger) *Forwarder {
	return &Forwarder{sink: sink, inbox: inbox, logger: logger}
}

// Run consumes until ctx is cancelled.
func (f *Forwarder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-f.inbox:
			f.forward(ctx, event)
		}
	}
}

func (f *Forwarder) forward(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		f.logger.ErrorContext(ctx, "marshal audit event", "kind", event.Kind, "error", err)
		return
	}
	topic := topicFor(CategoryOf(event.Kind))
	if err := f.sink.Publish(ctx, topic, []byte(event.Kind), payload); err != nil {
		f.logger.ErrorContext(ctx, "forward audit event",
			"kind", event.Kind,
			"topic", topic,
			"error", err,
		)
	}
}
