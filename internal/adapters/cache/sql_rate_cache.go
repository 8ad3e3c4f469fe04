package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-companion-service/internal/domain"
	"travel-companion-service/internal/platform/obs"
)

// Postgres-backed cache of exchange-rate snapshots.
type SQLRateCache struct {
	DB        *sql.DB
	freshness time.Duration
}

func NewSQLRateCache(db *sql.DB, freshness time.Duration) *SQLRateCache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &SQLRateCache{DB: db, freshness: freshness}
}

func (s *SQLRateCache) GetRate(ctx context.Context, base, compare string, now time.Time) (_ domain.CurrencyRateSnapshot, _ bool, err error) {
	defer obs.Time(ctx, "rate.GetRate")(&err)

	if s.DB == nil {
		return domain.CurrencyRateSnapshot{}, false, errors.New("rate cache: db is nil")
	}

	base = strings.TrimSpace(base)
	compare = strings.TrimSpace(compare)
	if base == "" || compare == "" {
		return domain.CurrencyRateSnapshot{}, false, fmt.Errorf(
			"get rate: empty currency pair: %w", domain.ErrValidation,
		)
	}

	q := `
	SELECT id, base_currency, compare_currency, rate, fetched_at
	FROM currency_rate
	WHERE base_currency = $1 AND compare_currency = $2
	ORDER BY fetched_at DESC, id DESC
	LIMIT 1;
	`
	var (
		snap      domain.CurrencyRateSnapshot
		fetchedAt int64
	)
	scanErr := s.DB.QueryRowContext(ctx, q, base, compare).Scan(
		&snap.ID, &snap.BaseCurrency, &snap.CompareCurrency, &snap.Rate, &fetchedAt,
	)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return domain.CurrencyRateSnapshot{}, false, nil
	}
	if scanErr != nil {
		return domain.CurrencyRateSnapshot{}, false, fmt.Errorf("get rate %s/%s: query: %w", base, compare, scanErr)
	}

	snap.FetchedAt = time.Unix(fetchedAt, 0)
	return snap, snap.Fresh(now, s.freshness), nil
}

func (s *SQLRateCache) Store(ctx context.Context, base, compare string, rate float64, now time.Time) (_ domain.CurrencyRateSnapshot, err error) {
	defer obs.Time(ctx, "rate.Store")(&err)

	if s.DB == nil {
		return domain.CurrencyRateSnapshot{}, errors.New("rate cache: db is nil")
	}

	base = strings.TrimSpace(base)
	compare = strings.TrimSpace(compare)
	if base == "" || compare == "" {
		return domain.CurrencyRateSnapshot{}, fmt.Errorf(
			"store rate: empty currency pair: %w", domain.ErrValidation,
		)
	}

	q := `
	INSERT INTO currency_rate (base_currency, compare_currency, rate, fetched_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id;
	`
	var id int64
	if err := s.DB.QueryRowContext(ctx, q, base, compare, rate, now.Unix()).Scan(&id); err != nil {
		return domain.CurrencyRateSnapshot{}, fmt.Errorf("store rate %s/%s: insert: %w", base, compare, err)
	}
	if id < 1 {
		return domain.CurrencyRateSnapshot{}, fmt.Errorf(
			"store rate %s/%s: no identity assigned: %w", base, compare, domain.ErrPersistence,
		)
	}

	return domain.CurrencyRateSnapshot{
		ID:              id,
		BaseCurrency:    base,
		CompareCurrency: compare,
		Rate:            rate,
		FetchedAt:       time.Unix(now.Unix(), 0),
	}, nil
}
