package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-companion-service/internal/domain"
)

// DefaultFreshness is the maximum snapshot age served without a refetch.
const DefaultFreshness = time.Hour

// SQLite-backed cache of exchange-rate snapshots. Rows are append-only;
// staleness is decided at read time against the freshness threshold.
type SqliteRateCache struct {
	DB        *sql.DB
	freshness time.Duration
}

func NewSqliteRateCache(db *sql.DB, freshness time.Duration) *SqliteRateCache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &SqliteRateCache{DB: db, freshness: freshness}
}

// Fetch the most recent snapshot for the pair. fromCache is true only when
// the snapshot is within the freshness threshold; a stale snapshot is still
// returned so callers can fall back to it if the refetch fails.
func (s *SqliteRateCache) GetRate(ctx context.Context, base, compare string, now time.Time) (domain.CurrencyRateSnapshot, bool, error) {
	if s.DB == nil {
		return domain.CurrencyRateSnapshot{}, false, errors.New("rate cache: DB is nil")
	}

	base = strings.TrimSpace(base)
	compare = strings.TrimSpace(compare)
	if base == "" || compare == "" {
		return domain.CurrencyRateSnapshot{}, false, fmt.Errorf(
			"get rate: empty currency pair: %w", domain.ErrValidation,
		)
	}

	// fetched_at descending, then id descending: insertion order breaks
	// timestamp ties.
	query := `
	SELECT id, base_currency, compare_currency, rate, fetched_at
	FROM currency_rate
	WHERE base_currency = ? AND compare_currency = ?
	ORDER BY fetched_at DESC, id DESC
	LIMIT 1;
	`
	var (
		snap      domain.CurrencyRateSnapshot
		fetchedAt int64
	)
	err := s.DB.QueryRowContext(ctx, query, base, compare).Scan(
		&snap.ID, &snap.BaseCurrency, &snap.CompareCurrency, &snap.Rate, &fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CurrencyRateSnapshot{}, false, nil
	}
	if err != nil {
		return domain.CurrencyRateSnapshot{}, false, fmt.Errorf("get rate %s/%s: query: %w", base, compare, err)
	}

	snap.FetchedAt = time.Unix(fetchedAt, 0)
	return snap, snap.Fresh(now, s.freshness), nil
}

// Append a new snapshot for the pair. Old rows are never touched.
func (s *SqliteRateCache) Store(ctx context.Context, base, compare string, rate float64, now time.Time) (domain.CurrencyRateSnapshot, error) {
	if s.DB == nil {
		return domain.CurrencyRateSnapshot{}, errors.New("rate cache: DB is nil")
	}

	base = strings.TrimSpace(base)
	compare = strings.TrimSpace(compare)
	if base == "" || compare == "" {
		return domain.CurrencyRateSnapshot{}, fmt.Errorf(
			"store rate: empty currency pair: %w", domain.ErrValidation,
		)
	}

	query := `
	INSERT INTO currency_rate (base_currency, compare_currency, rate, fetched_at)
	VALUES (?, ?, ?, ?);
	`
	res, err := s.DB.ExecContext(ctx, query, base, compare, rate, now.Unix())
	if err != nil {
		return domain.CurrencyRateSnapshot{}, fmt.Errorf("store rate %s/%s: insert: %w", base, compare, err)
	}

	id, err := res.LastInsertId()
	if err != nil || id < 1 {
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
