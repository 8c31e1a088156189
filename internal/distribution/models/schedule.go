package models

import (
	"time"

	dErrors "treasury/pkg/domain-errors"
)

const (
	// MinScheduleDelay is the shortest timelock a governor may request.
	MinScheduleDelay = 7 * 24 * time.Hour
	// MaxScheduleDelay is the longest. The 7-30 day window balances
	// responsiveness against instant reallocation abuse.
	MaxScheduleDelay = 30 * 24 * time.Hour
)

// ScheduledSplit is the single pending split proposal. At most one exists at
// a time; it is cleared by apply, cancel, or permanent activation.
type ScheduledSplit struct {
	Split       Split     `json:"split"`
	ScheduledAt time.Time `json:"scheduled_at"`
	ApplyAt     time.Time `json:"apply_at"`
}

// NewScheduledSplit validates the proposal and its timelock window.
func NewScheduledSplit(split Split, now time.Time, delay time.Duration) (*ScheduledSplit, error) {
	if err := split.Validate(); err != nil {
		return nil, err
	}
	if delay < MinScheduleDelay || delay > MaxScheduleDelay {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"delay must be between %s and %s", MinScheduleDelay, MaxScheduleDelay)
	}
	return &ScheduledSplit{
		Split:       split,
		ScheduledAt: now,
		ApplyAt:     now.Add(delay),
	}, nil
}

// Ready reports whether the timelock has elapsed. Checked lazily at call
// time; there is no background timer.
func (s *ScheduledSplit) Ready(now time.Time) bool {
	return !now.Before(s.ApplyAt)
}
