package ports

import (
	"context"

	"travel-companion-service/internal/domain"
)

// Port: a boundary for fetching live weather data. Weather is time-sensitive
// and is never cached locally. Failures wrap domain.ErrWeather.
type WeatherProvider interface {
	// Fetch current conditions; the returned snapshot carries the
	// provider-assigned session identity used by the forecast calls.
	CurrentWeather(ctx context.Context, c domain.Coordinate) (domain.WeatherSnapshot, error)
	DailyForecast(ctx context.Context, weatherID int64, c domain.Coordinate) ([]domain.DailyEntry, error)
	HourlyForecast(ctx context.Context, weatherID int64, c domain.Coordinate) ([]domain.HourlyEntry, error)
}
