package models

import (
	"strings"
	"time"

	dErrors "treasury/pkg/domain-errors"
)

// DepositRequest credits the custodial ledger. Unauthenticated: anyone may
// fund the engine. Reference is optional and deduplicates at-least-once
// webhook deliveries from upstream payment collectors.
type DepositRequest struct {
	AssetID   string `json:"asset_id"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

func (r *DepositRequest) Normalize() {
	if r == nil {
		return
	}
	r.AssetID = strings.TrimSpace(r.AssetID)
	r.Reference = strings.TrimSpace(r.Reference)
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *DepositRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.Reference) > 128 {
		return dErrors.New(dErrors.CodeValidation, "reference must be 128 characters or less")
	}
	if r.AssetID == "" {
		return dErrors.New(dErrors.CodeValidation, "asset_id is required")
	}
	if r.Amount < 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be non-negative")
	}
	return nil
}

// DistributeRequest triggers a full payout of one asset's balance.
type DistributeRequest struct {
	AssetID string `json:"asset_id"`
}

func (r *DistributeRequest) Normalize() {
	if r == nil {
		return
	}
	r.AssetID = strings.TrimSpace(r.AssetID)
}

func (r *DistributeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.AssetID == "" {
		return dErrors.New(dErrors.CodeValidation, "asset_id is required")
	}
	return nil
}

// ScheduleSplitRequest proposes a timelocked split change.
type ScheduleSplitRequest struct {
	FounderBps   int32 `json:"founder_bps"`
	DaoBps       int32 `json:"dao_bps"`
	CharityBps   int32 `json:"charity_bps"`
	DelaySeconds int64 `json:"delay_seconds"`
}

func (r *ScheduleSplitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if _, err := NewSplit(r.FounderBps, r.DaoBps, r.CharityBps); err != nil {
		return err
	}
	delay := r.Delay()
	if delay < MinScheduleDelay || delay > MaxScheduleDelay {
		return dErrors.Newf(dErrors.CodeValidation,
			"delay_seconds must be between %s and %s", MinScheduleDelay, MaxScheduleDelay)
	}
	return nil
}

func (r *ScheduleSplitRequest) Split() (Split, error) {
	return NewSplit(r.FounderBps, r.DaoBps, r.CharityBps)
}

func (r *ScheduleSplitRequest) Delay() time.Duration {
	return time.Duration(r.DelaySeconds) * time.Second
}

// ActivatePermanentRequest performs the one-shot, irreversible activation.
type ActivatePermanentRequest struct {
	FounderCapBps int32 `json:"founder_cap_bps"`
	DaoBps        int32 `json:"dao_bps"`
	CharityBps    int32 `json:"charity_bps"`
}

func (r *ActivatePermanentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.FounderCapBps > PermanentFounderCapBps {
		return dErrors.Newf(dErrors.CodeValidation,
			"founder_cap_bps must be at most %d", PermanentFounderCapBps)
	}
	if _, err := NewSplit(r.FounderCapBps, r.DaoBps, r.CharityBps); err != nil {
		return err
	}
	return nil
}

func (r *ActivatePermanentRequest) Split() (Split, error) {
	return NewSplit(r.FounderCapBps, r.DaoBps, r.CharityBps)
}

// UpdateDestinationsRequest replaces the payout address triple.
type UpdateDestinationsRequest struct {
	Founder string `json:"founder"`
	Dao     string `json:"dao"`
	Charity string `json:"charity"`
}

func (r *UpdateDestinationsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	_, err := NewDestinations(r.Founder, r.Dao, r.Charity)
	return err
}

func (r *UpdateDestinationsRequest) Destinations() (Destinations, error) {
	return NewDestinations(r.Founder, r.Dao, r.Charity)
}

// RoleChangeRequest grants or revokes a role membership.
type RoleChangeRequest struct {
	PrincipalID string `json:"principal_id"`
	Role        string `json:"role"`
}

func (r *RoleChangeRequest) Normalize() {
	if r == nil {
		return
	}
	r.PrincipalID = strings.TrimSpace(r.PrincipalID)
	r.Role = strings.TrimSpace(strings.ToLower(r.Role))
}

func (r *RoleChangeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.PrincipalID == "" {
		return dErrors.New(dErrors.CodeValidation, "principal_id is required")
	}
	if _, err := ParseRole(r.Role); err != nil {
		return err
	}
	return nil
}

// AuthorizeUpgradeRequest clears a new implementation through the upgrade gate.
type AuthorizeUpgradeRequest struct {
	Implementation string `json:"implementation"`
}

func (r *AuthorizeUpgradeRequest) Normalize() {
	if r == nil {
		return
	}
	r.Implementation = strings.TrimSpace(r.Implementation)
}

func (r *AuthorizeUpgradeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.Implementation) > 256 {
		return dErrors.New(dErrors.CodeValidation, "implementation must be 256 characters or less")
	}
	if r.Implementation == "" {
		return dErrors.New(dErrors.CodeValidation, "implementation is required")
	}
	return nil
}
