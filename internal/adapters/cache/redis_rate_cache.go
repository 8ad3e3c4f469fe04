package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"travel-companion-service/internal/domain"
)

// Redis-backed cache of exchange-rate snapshots, for deployments that share
// rate data between instances. Only the most recent snapshot per pair is
// kept (append-only history stays a SQL concern); identities come from a
// redis counter so tie-breaking matches the SQL backends.
type RedisRateCache struct {
	Client    *redis.Client
	freshness time.Duration
}

func NewRedisRateCache(client *redis.Client, freshness time.Duration) *RedisRateCache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &RedisRateCache{Client: client, freshness: freshness}
}

type redisRateEntry struct {
	ID        int64   `json:"id"`
	Rate      float64 `json:"rate"`
	FetchedAt int64   `json:"fetched_at"`
}

func rateKey(base, compare string) string {
	return "rate:" + base + ":" + compare
}

func (c *RedisRateCache) GetRate(ctx context.Context, base, compare string, now time.Time) (domain.CurrencyRateSnapshot, bool, error) {
	if c.Client == nil {
		return domain.CurrencyRateSnapshot{}, false, errors.New("rate cache: redis client is nil")
	}

	base = strings.TrimSpace(base)
	compare = strings.TrimSpace(compare)
	if base == "" || compare == "" {
		return domain.CurrencyRateSnapshot{}, false, fmt.Errorf(
			"get rate: empty currency pair: %w", domain.ErrValidation,
		)
	}

	raw, err := c.Client.Get(ctx, rateKey(base, compare)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.CurrencyRateSnapshot{}, false, nil
	}
	if err != nil {
		return domain.CurrencyRateSnapshot{}, false, fmt.Errorf("get rate %s/%s: redis get: %w", base, compare, err)
	}

	var entry redisRateEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return domain.CurrencyRateSnapshot{}, false, fmt.Errorf("get rate %s/%s: decode entry: %w", base, compare, err)
	}

	snap := domain.CurrencyRateSnapshot{
		ID:              entry.ID,
		BaseCurrency:    base,
		CompareCurrency: compare,
		Rate:            entry.Rate,
		FetchedAt:       time.Unix(entry.FetchedAt, 0),
	}
	return snap, snap.Fresh(now, c.freshness), nil
}

func (c *RedisRateCache) Store(ctx context.Context, base, compare string, rate float64, now time.Time) (domain.CurrencyRateSnapshot, error) {
	if c.Client == nil {
		return domain.CurrencyRateSnapshot{}, errors.New("rate cache: redis client is nil")
	}

	base = strings.TrimSpace(base)
	compare = strings.TrimSpace(compare)
	if base == "" || compare == "" {
		return domain.CurrencyRateSnapshot{}, fmt.Errorf(
			"store rate: empty currency pair: %w", domain.ErrValidation,
		)
	}

	id, err := c.Client.Incr(ctx, "rate:next_id").Result()
	if err != nil {
		return domain.CurrencyRateSnapshot{}, fmt.Errorf("store rate %s/%s: assign identity: %w", base, compare, err)
	}
	if id < 1 {
		return domain.CurrencyRateSnapshot{}, fmt.Errorf(
			"store rate %s/%s: no identity assigned: %w", base, compare, domain.ErrPersistence,
		)
	}

	entry := redisRateEntry{ID: id, Rate: rate, FetchedAt: now.Unix()}
	raw, err := json.Marshal(entry)
	if err != nil {
		return domain.CurrencyRateSnapshot{}, fmt.Errorf("store rate %s/%s: encode entry: %w", base, compare, err)
	}

	if err := c.Client.Set(ctx, rateKey(base, compare), raw, 0).Err(); err != nil {
		return domain.CurrencyRateSnapshot{}, fmt.Errorf("store rate %s/%s: redis set: %w", base, compare, err)
	}

	return domain.CurrencyRateSnapshot{
		ID:              id,
		BaseCurrency:    base,
		CompareCurrency: compare,
		Rate:            rate,
		FetchedAt:       time.Unix(now.Unix(), 0),
	}, nil
}
