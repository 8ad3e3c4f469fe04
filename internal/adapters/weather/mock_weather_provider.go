package weather

import (
	"context"

	"travel-companion-service/internal/domain"
)

// MockWeatherProvider returns canned payloads for pipeline tests. Each call
// site can be failed independently to exercise stage-level aborts.
type MockWeatherProvider struct {
	Snapshot domain.WeatherSnapshot
	Daily    []domain.DailyEntry
	Hourly   []domain.HourlyEntry

	CurrentErr error
	DailyErr   error
	HourlyErr  error

	CurrentCalls int
	DailyCalls   int
	HourlyCalls  int
}

func (m *MockWeatherProvider) CurrentWeather(ctx context.Context, c domain.Coordinate) (domain.WeatherSnapshot, error) {
	m.CurrentCalls++
	if m.CurrentErr != nil {
		return domain.WeatherSnapshot{}, m.CurrentErr
	}
	return m.Snapshot, nil
}

func (m *MockWeatherProvider) DailyForecast(ctx context.Context, weatherID int64, c domain.Coordinate) ([]domain.DailyEntry, error) {
	m.DailyCalls++
	if m.DailyErr != nil {
		return nil, m.DailyErr
	}
	return m.Daily, nil
}

func (m *MockWeatherProvider) HourlyForecast(ctx context.Context, weatherID int64, c domain.Coordinate) ([]domain.HourlyEntry, error) {
	m.HourlyCalls++
	if m.HourlyErr != nil {
		return nil, m.HourlyErr
	}
	return m.Hourly, nil
}
