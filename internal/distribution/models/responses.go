package models

import "time"

// Distribution is the record emitted for every executed payout. Conservation
// holds by construction: Total == FounderAmount+DaoAmount+CharityAmount.
type Distribution struct {
	AssetID       string    `json:"asset_id"`
	Total         int64     `json:"total"`
	FounderAmount int64     `json:"founder_amount"`
	DaoAmount     int64     `json:"dao_amount"`
	CharityAmount int64     `json:"charity_amount"`
	ExecutedAt    time.Time `json:"executed_at"`
}

// DepositResponse reports the balance after a deposit.
type DepositResponse struct {
	AssetID   string `json:"asset_id"`
	Balance   int64  `json:"balance"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// SplitResponse is the read-only view of the active split.
type SplitResponse struct {
	Phase      string `json:"phase"`
	FounderBps int32  `json:"founder_bps"`
	DaoBps     int32  `json:"dao_bps"`
	CharityBps int32  `json:"charity_bps"`
}

// ScheduledSplitResponse is the read-only view of the pending proposal.
type ScheduledSplitResponse struct {
	FounderBps  int32     `json:"founder_bps"`
	DaoBps      int32     `json:"dao_bps"`
	CharityBps  int32     `json:"charity_bps"`
	ScheduledAt time.Time `json:"scheduled_at"`
	ApplyAt     time.Time `json:"apply_at"`
}

// BalanceResponse is the read-only view of a held balance.
type BalanceResponse struct {
	AssetID string `json:"asset_id"`
	Balance int64  `json:"balance"`
}

// PhaseResponse is the read-only view of the lifecycle stage.
type PhaseResponse struct {
	Phase string `json:"phase"`
}
