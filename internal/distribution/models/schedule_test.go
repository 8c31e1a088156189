package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "treasury/pkg/domain-errors"
)

func TestNewScheduledSplit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	split := Split{FounderBps: 1000, DaoBps: 4500, CharityBps: 4500}

	t.Run("valid delay inside the window", func(t *testing.T) {
		sched, err := NewScheduledSplit(split, now, 14*24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, split, sched.Split)
		assert.Equal(t, now, sched.ScheduledAt)
		assert.Equal(t, now.Add(14*24*time.Hour), sched.ApplyAt)
	})

	t.Run("boundary delays are accepted", func(t *testing.T) {
		_, err := NewScheduledSplit(split, now, MinScheduleDelay)
		assert.NoError(t, err)
		_, err = NewScheduledSplit(split, now, MaxScheduleDelay)
		assert.NoError(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := NewScheduledSplit(split, now, MinScheduleDelay-time.Second)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("too long", func(t *testing.T) {
		_, err := NewScheduledSplit(split, now, MaxScheduleDelay+time.Second)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("invalid split rejected before the delay check", func(t *testing.T) {
		_, err := NewScheduledSplit(Split{FounderBps: 1}, now, 14*24*time.Hour)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestScheduledSplitReady(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sched, err := NewScheduledSplit(SurvivalSplit(), now, MinScheduleDelay)
	require.NoError(t, err)

	assert.False(t, sched.Ready(now))
	assert.False(t, sched.Ready(sched.ApplyAt.Add(-time.Nanosecond)))
	assert.True(t, sched.Ready(sched.ApplyAt), "boundary instant counts as elapsed")
	assert.True(t, sched.Ready(sched.ApplyAt.Add(time.Hour)))
}
