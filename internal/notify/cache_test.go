package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	cache, _ := newTestRedis(t)
	ctx := context.Background()

	_, hit, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, cache.Set(ctx, "k", []byte(`["a"]`), time.Minute))

	payload, hit, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []byte(`["a"]`), payload)

	require.NoError(t, cache.Invalidate(ctx, "k"))
	_, hit, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, hit)
}

func TestRedisCacheExpiryIsAMiss(t *testing.T) {
	cache, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 5*time.Minute))
	mr.FastForward(5*time.Minute + time.Second)

	_, hit, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, hit)
}

func TestMemoryCacheExpiryIsAMiss(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Now()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 5*time.Minute))

	_, hit, _ := cache.Get(ctx, "k")
	require.True(t, hit)

	now = now.Add(5*time.Minute + time.Second)
	_, hit, _ = cache.Get(ctx, "k")
	require.False(t, hit)

	// Expired entry is evicted, not resurrected.
	_, hit, _ = cache.Get(ctx, "k")
	require.False(t, hit)
}

type staticSource struct {
	calls int
	list  []Recipient
}

func (s *staticSource) ListEligible(context.Context, string) ([]Recipient, error) {
	s.calls++
	return s.list, nil
}

func TestTargetingCacheAside(t *testing.T) {
	cache, mr := newTestRedis(t)
	source := &staticSource{list: []Recipient{{DriverID: "d1", Name: "Pat"}}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	targeting := NewTargeting(logger, source, cache, 5*time.Minute)
	ctx := context.Background()

	got, err := targeting.EligibleRecipients(ctx, "carrier-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 1, source.calls)

	// Second read is served from cache.
	got, err = targeting.EligibleRecipients(ctx, "carrier-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 1, source.calls)

	// Expiry means recompute.
	mr.FastForward(5*time.Minute + time.Second)
	_, err = targeting.EligibleRecipients(ctx, "carrier-1")
	require.NoError(t, err)
	require.Equal(t, 2, source.calls)

	// Explicit invalidation too.
	require.NoError(t, targeting.Invalidate(ctx, "carrier-1"))
	_, err = targeting.EligibleRecipients(ctx, "carrier-1")
	require.NoError(t, err)
	require.Equal(t, 3, source.calls)
}
