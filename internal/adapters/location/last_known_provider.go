package location

import (
	"context"
	"fmt"

	"travel-companion-service/internal/domain"
	"travel-companion-service/internal/ports"
)

// LastKnownProvider prefers the device-reported coordinate and falls back to
// the most recently persisted one, so a session can start without a fresh fix
// after a relaunch.
type LastKnownProvider struct {
	Device      ports.LocationProvider
	Coordinates ports.CoordinateStore
}

func (p *LastKnownProvider) CurrentCoordinate(ctx context.Context) (domain.Coordinate, error) {
	if p.Device != nil {
		c, err := p.Device.CurrentCoordinate(ctx)
		if err == nil && !c.IsZero() {
			return c, nil
		}
	}

	if p.Coordinates == nil {
		return domain.Coordinate{}, fmt.Errorf(
			"current coordinate: no device fix and no coordinate store: %w", domain.ErrValidation,
		)
	}

	c, err := p.Coordinates.Latest(ctx)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("current coordinate: last-known lookup: %w", err)
	}

	return c, nil
}
