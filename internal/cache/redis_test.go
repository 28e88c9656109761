package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-billing/internal/config"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestSetAndGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	expected := []*models.Plan{{
		ID: 1, Name: "Basic", Price: decimal.RequireFromString("9.99"),
		BillingCycle: models.BillingCycleMonthly, Features: []string{"1 user"}, IsActive: true,
	}}
	require.NoError(t, cache.Set(ctx, "plans:active", expected, time.Minute))

	var actual []*models.Plan
	found, err := cache.Get(ctx, "plans:active", &actual)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, actual, 1)
	assert.Equal(t, "Basic", actual[0].Name)
	assert.True(t, expected[0].Price.Equal(actual[0].Price))
	assert.Equal(t, expected[0].Features, actual[0].Features)
}

func TestGetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var out models.Plan
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExpiration(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "plan:1", "value", time.Hour))
	mr.FastForward(time.Hour + time.Second)

	var out string
	found, err := cache.Get(ctx, "plan:1", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "plan:1", "one", time.Minute))
	require.NoError(t, cache.Set(ctx, "plan:2", "two", time.Minute))
	require.NoError(t, cache.Invalidate(ctx, "plan:1", "plan:2"))

	var out string
	found, err := cache.Get(ctx, "plan:1", &out)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = cache.Get(ctx, "plan:2", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetInvalidJSON(t *testing.T) {
	cache, mr := setupTestCache(t)
	require.NoError(t, mr.Set("bad", "not-json"))

	var out models.Plan
	found, err := cache.Get(context.Background(), "bad", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		AddressRedis: "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
	}

	cache, err := InitServer(context.Background(), cfg)
	assert.Nil(t, cache)
	assert.Error(t, err)
}
