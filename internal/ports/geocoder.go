package ports

import (
	"context"

	"travel-companion-service/internal/domain"
)

// Port: a boundary for reverse-geocoding a coordinate into a place
// description with its currency profile and flag glyph.
type Geocoder interface {
	// Resolve the coordinate into a place record (identity fields unset).
	// Failures wrap domain.ErrGeocode; an empty result is a failure.
	ReverseGeocode(ctx context.Context, c domain.Coordinate) (domain.PlaceRecord, error)
}
