package ports

import (
	"context"

	"travel-companion-service/internal/domain"
)

// Port: a boundary for persisting and deduplicating coordinates.
//
// Dedup is a caller contract: a coordinate that already carries an identity is
// canonical and Upsert never re-inserts it; callers resolve fresh values
// through FindByPosition before creating.
type CoordinateStore interface {
	// Persist the coordinate unless it already carries an identity or its
	// components are missing; the returned status says which case applied.
	Upsert(ctx context.Context, c domain.Coordinate) (domain.Coordinate, domain.PersistStatus, error)
	// Return the stored coordinate at the exact position. Equality is
	// bitwise: the dedup contract covers identical fixes, not proximity.
	// Fails with domain.ErrNotFound when the position was never stored.
	FindByPosition(ctx context.Context, latitude, longitude float64) (domain.Coordinate, error)
	// Return the single coordinate with the given identity.
	// Fails with domain.ErrNotFound on zero rows and domain.ErrAmbiguous when
	// more than one row matches (identity corruption, never auto-resolved).
	GetByID(ctx context.Context, id int64) (domain.Coordinate, error)
	// Return the most recently stored coordinate, as the last-known fix.
	Latest(ctx context.Context) (domain.Coordinate, error)
}
