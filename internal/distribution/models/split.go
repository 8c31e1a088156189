package models

import (
	dErrors "treasury/pkg/domain-errors"
)

const (
	// TotalBps is the whole pie: 10000 basis points == 100%.
	TotalBps = 10000

	// PermanentFounderCapBps is the maximum founder share a permanent split
	// may carry. Fixed at activation time, forever.
	PermanentFounderCapBps = 1000
)

// Split is the active founder/dao/charity allocation in basis points.
//
// Invariant: FounderBps+DaoBps+CharityBps == TotalBps at every observable
// state. Construct through NewSplit or validate before storing.
type Split struct {
	FounderBps int32 `json:"founder_bps"`
	DaoBps     int32 `json:"dao_bps"`
	CharityBps int32 `json:"charity_bps"`
}

// SurvivalSplit is the fixed allocation during the Survival phase.
func SurvivalSplit() Split {
	return Split{FounderBps: TotalBps}
}

// NewSplit builds a validated split.
func NewSplit(founder, dao, charity int32) (Split, error) {
	s := Split{FounderBps: founder, DaoBps: dao, CharityBps: charity}
	if err := s.Validate(); err != nil {
		return Split{}, err
	}
	return s, nil
}

// Validate checks the basis-point invariant.
func (s Split) Validate() error {
	if s.FounderBps < 0 || s.DaoBps < 0 || s.CharityBps < 0 {
		return dErrors.New(dErrors.CodeValidation, "split shares must be non-negative")
	}
	if s.FounderBps > TotalBps || s.DaoBps > TotalBps || s.CharityBps > TotalBps {
		return dErrors.Newf(dErrors.CodeValidation, "split shares must be at most %d bps", TotalBps)
	}
	if sum := s.FounderBps + s.DaoBps + s.CharityBps; sum != TotalBps {
		return dErrors.Newf(dErrors.CodeValidation, "split shares must sum to %d bps, got %d", TotalBps, sum)
	}
	return nil
}

// Amounts computes the payout for a given total. Founder and dao shares are
// floored; the remainder goes to charity. That is policy, not a rounding
// accident: it holds even when charity's nominal share is the smallest, so
// founder+dao+charity == total for every total.
func (s Split) Amounts(total int64) (founder, dao, charity int64) {
	founder = share(total, s.FounderBps)
	dao = share(total, s.DaoBps)
	charity = total - founder - dao
	return founder, dao, charity
}

// share computes floor(total*bps/TotalBps) without the intermediate product,
// which overflows int64 for balances above ~2^50 minor units. Splitting the
// total into quotient and remainder keeps every term in range: the remainder
// is below TotalBps, so remainder*bps stays under 10^8.
func share(total int64, bps int32) int64 {
	q, r := total/TotalBps, total%TotalBps
	return q*int64(bps) + r*int64(bps)/TotalBps
}
