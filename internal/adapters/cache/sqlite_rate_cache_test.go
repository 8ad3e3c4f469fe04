package cache

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"travel-companion-service/internal/adapters/repositories"
	"travel-companion-service/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return db
}

func TestSqliteRateCacheMissThenFreshHit(t *testing.T) {
	c := NewSqliteRateCache(openTestDB(t), time.Hour)
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
	if !stored.FetchedAt.Equal(t0) {
		t.Fatalf("fetched at = %v, want %v", stored.FetchedAt, t0)
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
}

func TestSqliteRateCacheStaleSnapshotStillReturned(t *testing.T) {
	c := NewSqliteRateCache(openTestDB(t), time.Hour)
	ctx := context.Background()
	t0 := time.Unix(1_700_000_000, 0)

	if _, err := c.Store(ctx, "USD", "EUR", 0.92, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Past the threshold the hit flag drops, but the snapshot survives as a
	// fallback for when the refetch fails.
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

func TestSqliteRateCacheNewestRowWins(t *testing.T) {
	c := NewSqliteRateCache(openTestDB(t), time.Hour)
	ctx := context.Background()
	t0 := time.Unix(1_700_000_000, 0)

	if _, err := c.Store(ctx, "USD", "EUR", 0.90, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same second; identity order breaks the timestamp tie.
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

func TestSqliteRateCacheRejectsEmptyPair(t *testing.T) {
	c := NewSqliteRateCache(openTestDB(t), time.Hour)
	ctx := context.Background()
	t0 := time.Unix(1_700_000_000, 0)

	if _, _, err := c.GetRate(ctx, " ", "EUR", t0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if _, err := c.Store(ctx, "USD", "", 0.92, t0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}
