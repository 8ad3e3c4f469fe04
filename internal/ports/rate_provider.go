package ports

import "context"

// Port: a boundary for fetching a live exchange rate between two currencies.
// Failures wrap domain.ErrRateFetch.
type RateProvider interface {
	FetchRate(ctx context.Context, base, compare string) (float64, error)
}
