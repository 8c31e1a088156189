package service

import (
	"context"
	"errors"
	"time"

	"treasury/internal/audit"
	"treasury/internal/distribution/models"
	id "treasury/pkg/domain"
	dErrors "treasury/pkg/domain-errors"
	"treasury/pkg/platform/sentinel"
	"treasury/pkg/requestcontext"
)

// Deposit credits the custodial ledger. Unauthenticated by design. A
// duplicate reference is acknowledged without crediting so at-least-once
// webhook delivery cannot double-fund.
func (s *Service) Deposit(ctx context.Context, req *models.DepositRequest) (*models.DepositResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	asset, err := id.ParseAssetID(req.AssetID)
	if err != nil {
		return nil, err
	}

	if req.Reference != "" && s.references != nil {
		if err := s.references.Reserve(ctx, req.Reference); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				balance, berr := s.ledger.Balance(ctx, asset)
				if berr != nil {
					return nil, dErrors.Wrap(berr, dErrors.CodeInternal, "failed to read balance")
				}
				return &models.DepositResponse{AssetID: asset.String(), Balance: balance, Duplicate: true}, nil
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reserve deposit reference")
		}
	}

	if req.Amount == 0 {
		// Zero-value deposits are accepted as no-ops.
		balance, err := s.ledger.Balance(ctx, asset)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read balance")
		}
		return &models.DepositResponse{AssetID: asset.String(), Balance: balance}, nil
	}

	balance, err := s.ledger.Deposit(ctx, asset, req.Amount)
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.New(dErrors.CodeValidation, "deposit exceeds the maximum holdable balance")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit ledger")
	}

	if s.metrics != nil {
		s.metrics.IncrementDeposits()
	}
	s.emitAudit(ctx, audit.Event{
		Kind:    audit.KindDepositReceived,
		AssetID: asset.String(),
		Total:   req.Amount,
	})

	return &models.DepositResponse{AssetID: asset.String(), Balance: balance}, nil
}

// Distribute pays out the full held balance of one asset according to the
// active split and zeroes the balance. Unauthenticated by design; the whole
// operation is atomic. A concurrent second call observes a zero balance and
// fails with CodeEmptyBalance, so retrying is always safe.
func (s *Service) Distribute(ctx context.Context, req *models.DistributeRequest) (*models.Distribution, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	asset, err := id.ParseAssetID(req.AssetID)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "distribution.Distribute")
	defer span.End()

	// The governance snapshot is read before the ledger lock. A split applied
	// between this read and the payout takes effect on the next distribution;
	// a payout never straddles two splits.
	st, err := s.state.Get(ctx)
	if err != nil {
		return nil, translateStateErr(err)
	}

	start := time.Now()
	var dist *models.Distribution
	err = s.ledger.Distribute(ctx, asset, func(total int64) error {
		if total == 0 {
			return dErrors.New(dErrors.CodeEmptyBalance, "no balance held for asset")
		}
		founder, dao, charity := st.Split.Amounts(total)

		payouts := make([]models.Payout, 0, 3)
		for _, p := range []models.Payout{
			{Destination: st.Destinations.Founder, Amount: founder},
			{Destination: st.Destinations.Dao, Amount: dao},
			{Destination: st.Destinations.Charity, Amount: charity},
		} {
			if p.Amount == 0 {
				continue
			}
			payouts = append(payouts, p)
		}
		// One batch, settled all-or-nothing, so an aborted call leaves no leg
		// paid while the ledger keeps the balance.
		if err := s.gateway.Transfer(ctx, asset, payouts); err != nil {
			return dErrors.Wrap(err, dErrors.CodeTransferFailed, "destination rejected transfer")
		}

		dist = &models.Distribution{
			AssetID:       asset.String(),
			Total:         total,
			FounderAmount: founder,
			DaoAmount:     dao,
			CharityAmount: charity,
			ExecutedAt:    requestcontext.Now(ctx),
		}
		return nil
	})
	if err != nil {
		if dErrors.Is(err) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "distribution failed")
	}

	if s.metrics != nil {
		s.metrics.ObserveDistribution(start, dist.FounderAmount, dist.DaoAmount, dist.CharityAmount)
	}
	s.emitAudit(ctx, audit.Event{
		Kind:          audit.KindDistributionExecuted,
		AssetID:       dist.AssetID,
		Total:         dist.Total,
		FounderAmount: dist.FounderAmount,
		DaoAmount:     dist.DaoAmount,
		CharityAmount: dist.CharityAmount,
	})
	s.logger.InfoContext(ctx, "distribution executed",
		"asset_id", dist.AssetID,
		"total", dist.Total,
		"founder_amount", dist.FounderAmount,
		"dao_amount", dist.DaoAmount,
		"charity_amount", dist.CharityAmount,
	)

	return dist, nil
}
