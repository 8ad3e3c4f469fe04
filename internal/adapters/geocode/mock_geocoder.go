package geocode

import (
	"context"

	"travel-companion-service/internal/domain"
)

// MockGeocoder returns a canned place record for pipeline tests.
type MockGeocoder struct {
	Record domain.PlaceRecord
	Err    error
	Calls  int
}

func (m *MockGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinate) (domain.PlaceRecord, error) {
	m.Calls++
	if m.Err != nil {
		return domain.PlaceRecord{}, m.Err
	}

	r := m.Record
	r.CoordinateID = c.ID
	r.Coordinate = c
	return r, nil
}
