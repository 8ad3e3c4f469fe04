package location

import (
	"context"
	"fmt"

	"travel-companion-service/internal/domain"
)

// StaticProvider reports a fixed coordinate, standing in for the device GPS
// (permission prompting belongs to the surrounding app, not this core).
type StaticProvider struct {
	Lat float64
	Lon float64
}

func (p *StaticProvider) CurrentCoordinate(ctx context.Context) (domain.Coordinate, error) {
	c := domain.Coordinate{Latitude: p.Lat, Longitude: p.Lon}
	if c.IsZero() {
		return domain.Coordinate{}, fmt.Errorf(
			"current coordinate: no device fix configured: %w", domain.ErrValidation,
		)
	}
	return c, nil
}
