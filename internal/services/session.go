package services

import (
	"time"

	"travel-companion-service/internal/domain"
)

// Session is the fully resolved state of one completed load run. It is
// returned explicitly to collaborators instead of living in ambient
// package state, so overlapping runs cannot observe each other's data.
type Session struct {
	Coordinate    domain.Coordinate
	Place         domain.PlaceRecord
	Rate          domain.CurrencyRateSnapshot
	RateFromCache bool
	Weather       domain.WeatherSnapshot
	Daily         []domain.DailyEntry
	Hourly        []domain.HourlyEntry
	CompletedAt   time.Time
}
