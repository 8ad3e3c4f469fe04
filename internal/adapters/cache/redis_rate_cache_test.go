package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"travel-companion-service/internal/domain"
)

func newTestRedisCache(t *testing.T) *RedisRateCache {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisRateCache(client, time.Hour)
}

func TestRedisRateCacheMissThenFreshHit(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()
	t0 := time.Unix(1_700_000_000, 0)

	snap, fromCache, err := c.GetRate(ctx, "USD", "EUR", t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromCache {
		t.Fatal("empty cache reported a hit")
	}
	if snap != (domain.CurrencyRateSnapshot{}) {
		t.Fatalf("empty cache returned snapshot %+v", snap)
	}

	stored, err := c.Store(ctx, "USD", "EUR", 0.92, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ID != 1 || stored.Rate != 0.92 {
		t.Fatalf("stored = %+v", stored)
	}

	snap, fromCache, err = c.GetRate(ctx, "USD", "EUR", t0.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fromCache {
		t.Fatal("fresh snapshot reported as miss")
	}
	if snap.Rate != 0.92 || snap.BaseCurrency != "USD" || snap.CompareCurrency != "EUR" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if !snap.FetchedAt.Equal(t0) {
		t.Fatalf("fetched at = %v, want %v", snap.FetchedAt, t0)
	}
}

func TestRedisRateCacheStaleSnapshotStillReturned(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()
	t0 := time.Unix(1_700_000_000, 0)

	if _, err := c.Store(ctx, "USD", "EUR", 0.92, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, fromCache, err := c.GetRate(ctx, "USD", "EUR", t0.Add(time.Hour+time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromCache {
		t.Fatal("stale snapshot reported as fresh")
	}
	if snap.Rate != 0.92 {
		t.Fatalf("stale snapshot lost: %+v", snap)
	}
}

func TestRedisRateCacheNewerStoreReplacesOlder(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()
	t0 := time.Unix(1_700_000_000, 0)

	if _, err := c.Store(ctx, "USD", "EUR", 0.90, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Store(ctx, "USD", "EUR", 0.93, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Store(ctx, "USD", "GBP", 0.79, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, fromCache, err := c.GetRate(ctx, "USD", "EUR", t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fromCache {
		t.Fatal("fresh snapshot reported as miss")
	}
	if snap.Rate != 0.93 || snap.ID != 2 {
		t.Fatalf("snapshot = %+v, want id 2 rate 0.93", snap)
	}
}
