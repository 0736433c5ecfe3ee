package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Symbol string    `json:"symbol"`
	Values []float64 `json:"values"`
}

func TestMemoryCacheRoundTripsStructs(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	in := snapshot{Symbol: "SPY", Values: []float64{1.5, -2}}
	require.NoError(t, mc.Set(ctx, "seasonal:v3:SPY:5:daily", in, time.Minute))

	var out snapshot
	require.NoError(t, mc.Get(ctx, "seasonal:v3:SPY:5:daily", &out))
	assert.Equal(t, in, out)

	var s string
	require.NoError(t, mc.Set(ctx, "plain", "value", 0))
	require.NoError(t, mc.Get(ctx, "plain", &s))
	assert.Equal(t, "value", s)

	err := mc.Get(ctx, "missing", &out)
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	var s string
	assert.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheLock(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	token, ok, err := mc.TryLock(ctx, "lock:a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)
	_, ok, _ = mc.TryLock(ctx, "lock:a", time.Minute)
	assert.False(t, ok)

	// A stale token leaves the current holder's lock in place.
	require.NoError(t, mc.Unlock(ctx, "lock:a", "someone-else"))
	_, ok, _ = mc.TryLock(ctx, "lock:a", time.Minute)
	assert.False(t, ok)

	require.NoError(t, mc.Unlock(ctx, "lock:a", token))
	_, ok, _ = mc.TryLock(ctx, "lock:a", time.Minute)
	assert.True(t, ok)
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	for _, k := range []string{"seasonal:v2:SPY:5:daily", "seasonal:v2:QQQ:5:daily", "seasonal:v3:SPY:5:daily"} {
		require.NoError(t, mc.Set(ctx, k, "x", time.Minute))
	}
	require.NoError(t, mc.DeleteByPattern(ctx, BuildPattern("seasonal:v2:")))

	ok, _ := mc.Exists(ctx, "seasonal:v2:SPY:5:daily", "seasonal:v2:QQQ:5:daily")
	assert.False(t, ok)
	ok, _ = mc.Exists(ctx, "seasonal:v3:SPY:5:daily")
	assert.True(t, ok)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", "1", time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", "2", time.Minute))
	time.Sleep(time.Millisecond)
	var s string
	require.NoError(t, mc.Get(ctx, "a", &s))
	require.NoError(t, mc.Set(ctx, "c", "3", time.Minute))

	assert.ErrorIs(t, mc.Get(ctx, "b", &s), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &s))
	assert.NoError(t, mc.Get(ctx, "c", &s))
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "dividends:AAPL", GenerateKeyWithParams("dividends", "AAPL"))
	assert.Equal(t, "seasonal:v3:SPY:5:daily", GenerateKeyWithParams("seasonal", "v3", "SPY", 5, "daily"))
}
