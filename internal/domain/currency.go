package domain

import "time"

// Append-only exchange-rate snapshot for a (base, compare) currency pair.
// Staleness is handled by inserting a newer row, never by mutating an old one.
type CurrencyRateSnapshot struct {
	ID              int64
	BaseCurrency    string
	CompareCurrency string
	Rate            float64
	FetchedAt       time.Time
}

// Fresh reports whether the snapshot is younger than threshold at now.
func (s CurrencyRateSnapshot) Fresh(now time.Time, threshold time.Duration) bool {
	return now.Sub(s.FetchedAt) < threshold
}
