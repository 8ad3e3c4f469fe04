package ports

import (
	"context"

	"travel-companion-service/internal/domain"
)

// Port: a boundary for obtaining the device-reported or last-known
// coordinate. Permission prompting is the collaborator's concern.
type LocationProvider interface {
	CurrentCoordinate(ctx context.Context) (domain.Coordinate, error)
}
