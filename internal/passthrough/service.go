// Package passthrough implements the immutable single-destination router: no
// governance, no rounding, 100% of anything received forwards to one
// destination fixed at construction. It is the baseline the phased router
// reduces to when the founder holds the whole split.
package passthrough

import (
	"context"
	"errors"
	"log/slog"

	"treasury/internal/audit"
	"treasury/internal/distribution/models"
	id "treasury/pkg/domain"
	dErrors "treasury/pkg/domain-errors"
	"treasury/pkg/platform/sentinel"
	"treasury/pkg/requestcontext"
)

// LedgerStore tracks the router's custodial balances.
type LedgerStore interface {
	Deposit(ctx context.Context, asset id.AssetID, amount int64) (int64, error)
	Balance(ctx context.Context, asset id.AssetID) (int64, error)
	Distribute(ctx context.Context, asset id.AssetID, fn func(total int64) error) error
}

// TransferGateway moves value out of custody. The batch settles all-or-
// nothing; this router only ever sends single-leg batches.
type TransferGateway interface {
	Transfer(ctx context.Context, asset id.AssetID, payouts []models.Payout) error
}

// AuditPublisher captures value-flow events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the passthrough router.
type Service struct {
	destination models.Destination
	ledger      LedgerStore
	gateway     TransferGateway
	logger      *slog.Logger
	publisher   AuditPublisher
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

// New constructs a passthrough router. The destination is fixed for the
// lifetime of the service; there is deliberately no setter.
func New(destination models.Destination, ledger LedgerStore, gateway TransferGateway, opts ...Option) (*Service, error) {
	if destination == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "destination is required")
	}
	s := &Service{
		destination: destination,
		ledger:      ledger,
		gateway:     gateway,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Deposit credits the ledger and immediately forwards the full balance. A
// forward failure is not a deposit failure: the value stays custodied and
// Distribute serves as the manual backstop.
func (s *Service) Deposit(ctx context.Context, req *models.DepositRequest) (*models.DepositResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	asset, err := id.ParseAssetID(req.AssetID)
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.Deposit(ctx, asset, req.Amount); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.New(dErrors.CodeValidation, "deposit exceeds the maximum holdable balance")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit ledger")
	}

	if err := s.forward(ctx, asset, audit.KindPassthroughForwarded); err != nil {
		s.logger.WarnContext(ctx, "auto-forward failed, balance retained",
			"asset_id", asset.String(),
			"error", err,
		)
	}

	balance, err := s.ledger.Balance(ctx, asset)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read balance")
	}
	return &models.DepositResponse{AssetID: asset.String(), Balance: balance}, nil
}

// Distribute is the manual backstop for any balance not auto-forwarded.
// Fails with CodeEmptyBalance when nothing is held.
func (s *Service) Distribute(ctx context.Context, req *models.DistributeRequest) (*models.Distribution, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	asset, err := id.ParseAssetID(req.AssetID)
	if err != nil {
		return nil, err
	}

	var total int64
	forwardErr := s.ledger.Distribute(ctx, asset, func(held int64) error {
		if held == 0 {
			return dErrors.New(dErrors.CodeEmptyBalance, "no balance held for asset")
		}
		total = held
		if err := s.gateway.Transfer(ctx, asset, []models.Payout{{Destination: s.destination, Amount: held}}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeTransferFailed, "destination rejected transfer")
		}
		return nil
	})
	if forwardErr != nil {
		if dErrors.Is(forwardErr) {
			return nil, forwardErr
		}
		return nil, dErrors.Wrap(forwardErr, dErrors.CodeInternal, "distribution failed")
	}

	s.emit(ctx, asset, total, audit.KindPassthroughDistributed)
	return &models.Distribution{
		AssetID:    asset.String(),
		Total:      total,
		ExecutedAt: requestcontext.Now(ctx),
	}, nil
}

// Pending returns the balance awaiting forwarding.
func (s *Service) Pending(ctx context.Context, assetID string) (*models.BalanceResponse, error) {
	asset, err := id.ParseAssetID(assetID)
	if err != nil {
		return nil, err
	}
	balance, err := s.ledger.Balance(ctx, asset)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read balance")
	}
	return &models.BalanceResponse{AssetID: asset.String(), Balance: balance}, nil
}

// forward drains the held balance to the destination. A zero balance is a
// silent no-op here; only the explicit backstop reports it as an error.
func (s *Service) forward(ctx context.Context, asset id.AssetID, kind audit.Kind) error {
	var total int64
	err := s.ledger.Distribute(ctx, asset, func(held int64) error {
		if held == 0 {
			return nil
		}
		total = held
		return s.gateway.Transfer(ctx, asset, []models.Payout{{Destination: s.destination, Amount: held}})
	})
	if err != nil {
		return err
	}
	if total > 0 {
		s.emit(ctx, asset, total, kind)
	}
	return nil
}

func (s *Service) emit(ctx context.Context, asset id.AssetID, total int64, kind audit.Kind) {
	if s.publisher == nil {
		return
	}
	event := audit.Event{
		Kind:      kind,
		Timestamp: requestcontext.Now(ctx),
		RequestID: requestcontext.RequestID(ctx),
		AssetID:   asset.String(),
		Total:     total,
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "emit audit event", "kind", kind, "error", err)
	}
}
