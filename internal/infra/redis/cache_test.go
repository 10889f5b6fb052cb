package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisinfra "github.com/avaldes/walletbook/internal/infra/redis"
	"github.com/avaldes/walletbook/internal/module/dashboard"
	"github.com/avaldes/walletbook/pkg/logger"
	"github.com/avaldes/walletbook/pkg/money"
)

func newTestCache(t *testing.T) (*redisinfra.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisinfra.NewCache(client, logger.NewDefault("test")), mr
}

func sampleDashboard() *dashboard.Dashboard {
	return &dashboard.Dashboard{
		Summary: dashboard.Summary{
			TotalRevenue: money.MustParse("2500.00"),
			TotalExpense: money.MustParse("900.00"),
			Balance:      money.MustParse("1600.00"),
			Period:       "2025-3",
		},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)
	clientID := uuid.New()
	key := clientID.String() + ":2025:3"

	_, ok := cache.GetDashboard(ctx, key)
	assert.False(t, ok)

	cache.SetDashboard(ctx, key, sampleDashboard(), time.Minute)

	got, ok := cache.GetDashboard(ctx, key)
	require.True(t, ok)
	assert.Equal(t, money.MustParse("1600.00"), got.Summary.Balance)
	assert.Equal(t, "2025-3", got.Summary.Period)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)
	key := uuid.New().String() + ":2025:0"

	cache.SetDashboard(ctx, key, sampleDashboard(), time.Minute)
	mr.FastForward(2 * time.Minute)

	_, ok := cache.GetDashboard(ctx, key)
	assert.False(t, ok)
}

func TestInvalidateClient(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)
	clientID := uuid.New()
	other := uuid.New()

	cache.SetDashboard(ctx, clientID.String()+":2025:3", sampleDashboard(), time.Minute)
	cache.SetDashboard(ctx, clientID.String()+":2025:0", sampleDashboard(), time.Minute)
	cache.SetDashboard(ctx, other.String()+":2025:3", sampleDashboard(), time.Minute)

	require.NoError(t, cache.InvalidateClient(ctx, clientID))

	_, ok := cache.GetDashboard(ctx, clientID.String()+":2025:3")
	assert.False(t, ok)
	_, ok = cache.GetDashboard(ctx, clientID.String()+":2025:0")
	assert.False(t, ok)

	// other clients keep their entries
	_, ok = cache.GetDashboard(ctx, other.String()+":2025:3")
	assert.True(t, ok)
}

func TestInvalidateClientWithNoEntries(t *testing.T) {
	cache, _ := newTestCache(t)
	assert.NoError(t, cache.InvalidateClient(context.Background(), uuid.New()))
}
