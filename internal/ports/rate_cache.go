package ports

import (
	"context"
	"time"

	"travel-companion-service/internal/domain"
)

// Port: a pure cache of exchange-rate snapshots keyed by currency pair.
//
// The cache never calls the external rate provider itself; network policy
// stays in the pipeline layer. On a stale hit the old snapshot is still
// returned (with fromCache=false) so callers can fall back to it.
type RateCache interface {
	// Return the most recent snapshot for the pair ("most recent" is
	// fetched_at descending, then identity descending on ties). fromCache is
	// true only when the snapshot is younger than the freshness threshold at
	// now. A pair with no snapshot returns a zero snapshot and false.
	GetRate(ctx context.Context, base, compare string, now time.Time) (snapshot domain.CurrencyRateSnapshot, fromCache bool, err error)
	// Append a new snapshot for the pair and return it with its identity.
	Store(ctx context.Context, base, compare string, rate float64, now time.Time) (domain.CurrencyRateSnapshot, error)
}
