// Package service orchestrates the phased revenue-distribution engine: the
// custodial ledger, the governance state machine and the payout path.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"treasury/internal/audit"
	distmetrics "treasury/internal/distribution/metrics"
	"treasury/internal/distribution/models"
	id "treasury/pkg/domain"
	dErrors "treasury/pkg/domain-errors"
	"treasury/pkg/platform/sentinel"
	"treasury/pkg/requestcontext"
)

// StateStore persists the governance aggregate. Execute must run check and
// apply under one lock (mutex or FOR UPDATE) so every mutation is an atomic
// validate-then-apply unit; a check error must leave state untouched.
type StateStore interface {
	Get(ctx context.Context) (*models.RouterState, error)
	Execute(ctx context.Context, check func(*models.RouterState) error, apply func(*models.RouterState)) (*models.RouterState, error)
}

// LedgerStore tracks the custodial balances. Distribute must run fn with the
// balance locked and zero it only when fn succeeds.
type LedgerStore interface {
	Deposit(ctx context.Context, asset id.AssetID, amount int64) (int64, error)
	Balance(ctx context.Context, asset id.AssetID) (int64, error)
	Distribute(ctx context.Context, asset id.AssetID, fn func(total int64) error) error
}

// TransferGateway moves value out of custody. Transfer settles the whole
// batch or none of it: when any leg fails, no destination may have been
// paid, so an aborted distribution can be retried without double-paying.
type TransferGateway interface {
	Transfer(ctx context.Context, asset id.AssetID, payouts []models.Payout) error
}

// ReferenceStore reserves deposit references for webhook deduplication.
type ReferenceStore interface {
	Reserve(ctx context.Context, reference string) error
}

// AuditPublisher captures governance and value-flow events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
	ListByKind(ctx context.Context, kind audit.Kind, limit int) ([]audit.Event, error)
}

// Service is the distribution engine.
type Service struct {
	state      StateStore
	ledger     LedgerStore
	gateway    TransferGateway
	references ReferenceStore
	logger     *slog.Logger
	publisher  AuditPublisher
	metrics    *distmetrics.Metrics
	tracer     trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *distmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithReferenceStore(store ReferenceStore) Option {
	return func(s *Service) {
		s.references = store
	}
}

// New constructs a Service.
func New(state StateStore, ledger LedgerStore, gateway TransferGateway, opts ...Option) *Service {
	s := &Service{
		state:   state,
		ledger:  ledger,
		gateway: gateway,
		logger:  slog.Default(),
		tracer:  otel.Tracer("treasury/distribution"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// requireRole is the single authorization guard for every mutating entry
// point. It runs inside the store's Execute callback so the membership check
// and the mutation commit as one unit.
func requireRole(st *models.RouterState, principal id.PrincipalID, roles ...models.Role) error {
	if principal.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	for _, role := range roles {
		if st.HasRole(role, principal) {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeForbidden, "caller lacks the required role")
}

// translateStateErr keeps domain codes intact and maps store sentinels.
func translateStateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case dErrors.Is(err):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeInternal, "router state not initialized")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "state store failure")
	}
}

// emitAudit records the event, stamping actor and correlation metadata from
// the request context. Audit sink failures are logged, not surfaced: the
// mutation already committed and the caller's result must reflect that.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	if event.Actor == "" {
		if principal := requestcontext.PrincipalID(ctx); !principal.IsZero() {
			event.Actor = principal.String()
		}
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "emit audit event",
			"kind", event.Kind,
			"error", err,
		)
	}
}

func (s *Service) recordGovernance(action string) {
	if s.metrics != nil {
		s.metrics.IncrementGovernance(action)
	}
}

func (s *Service) recordPhase(phase models.Phase) {
	if s.metrics != nil {
		s.metrics.SetPhase(string(phase))
	}
}
