package service

import (
	"context"

	"treasury/internal/audit"
	"treasury/internal/distribution/models"
	id "treasury/pkg/domain"
	dErrors "treasury/pkg/domain-errors"
)

// CurrentSplit returns the active split and phase.
func (s *Service) CurrentSplit(ctx context.Context) (*models.SplitResponse, error) {
	st, err := s.state.Get(ctx)
	if err != nil {
		return nil, translateStateErr(err)
	}
	return splitResponse(st), nil
}

// ScheduledSplit returns the pending proposal, or CodeNotScheduled when none
// exists.
func (s *Service) ScheduledSplit(ctx context.Context) (*models.ScheduledSplitResponse, error) {
	st, err := s.state.Get(ctx)
	if err != nil {
		return nil, translateStateErr(err)
	}
	if st.Scheduled == nil {
		return nil, dErrors.New(dErrors.CodeNotScheduled, "no split is scheduled")
	}
	return scheduledResponse(st.Scheduled), nil
}

// CurrentPhase returns the lifecycle stage.
func (s *Service) CurrentPhase(ctx context.Context) (*models.PhaseResponse, error) {
	st, err := s.state.Get(ctx)
	if err != nil {
		return nil, translateStateErr(err)
	}
	return &models.PhaseResponse{Phase: string(st.Phase)}, nil
}

// PendingBalance returns the held balance for one asset.
func (s *Service) PendingBalance(ctx context.Context, assetID string) (*models.BalanceResponse, error) {
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

// Distributions returns recent executed distributions, newest first, read
// from the audit trail.
func (s *Service) Distributions(ctx context.Context, limit int) ([]models.Distribution, error) {
	if s.publisher == nil {
		return nil, nil
	}
	events, err := s.publisher.ListByKind(ctx, audit.KindDistributionExecuted, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list distributions")
	}
	out := make([]models.Distribution, 0, len(events))
	for _, e := range events {
		out = append(out, models.Distribution{
			AssetID:       e.AssetID,
			Total:         e.Total,
			FounderAmount: e.FounderAmount,
			DaoAmount:     e.DaoAmount,
			CharityAmount: e.CharityAmount,
			ExecutedAt:    e.Timestamp,
		})
	}
	return out, nil
}
