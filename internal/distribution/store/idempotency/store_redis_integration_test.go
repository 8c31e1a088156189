//go:build integration

package idempotency_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasury/internal/distribution/store/idempotency"
	"treasury/pkg/platform/sentinel"
	"treasury/pkg/testutil/containers"
)

func TestRedisReserve(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	store := idempotency.NewRedisStore(rc.Client)

	require.NoError(t, store.Reserve(ctx, "webhook-1"))
	assert.ErrorIs(t, store.Reserve(ctx, "webhook-1"), sentinel.ErrAlreadyUsed)
	require.NoError(t, store.Reserve(ctx, "webhook-2"))
	require.NoError(t, store.Reserve(ctx, ""))
}

func TestRedisReserveExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	store := idempotency.NewRedisStore(rc.Client, idempotency.WithTTL(time.Second))

	require.NoError(t, store.Reserve(ctx, "webhook-1"))
	assert.ErrorIs(t, store.Reserve(ctx, "webhook-1"), sentinel.ErrAlreadyUsed)

	time.Sleep(1500 * time.Millisecond)
	require.NoError(t, store.Reserve(ctx, "webhook-1"), "expired reservations are reusable")
}
