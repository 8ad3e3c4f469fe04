package ports

import (
	"context"

	"travel-companion-service/internal/domain"
)

// Port: a boundary for persisting reverse-geocoded place records.
type PlaceStore interface {
	// Return the single record for a coordinate identity.
	// domain.ErrNotFound on zero rows, domain.ErrAmbiguous on multiple.
	GetByCoordinateID(ctx context.Context, coordinateID int64) (domain.PlaceRecord, error)
	// Return every stored record ordered by identity ascending. Embedded
	// coordinates are not joined here; callers resolve missing ones through
	// the CoordinateStore.
	ListAll(ctx context.Context) ([]domain.PlaceRecord, error)
	// Insert the record unless it already carries an identity.
	Create(ctx context.Context, record domain.PlaceRecord) (domain.PlaceRecord, domain.PersistStatus, error)
	// Delete by identity. A non-positive id returns false without touching
	// storage. Deleting a record never cascades to its coordinate.
	DeleteByID(ctx context.Context, id int64) (bool, error)
	// Set the photo reference for an existing record. Returns false without
	// touching storage when photoURI is empty or id is non-positive.
	UpdatePhotoReference(ctx context.Context, photoURI string, id int64) (bool, error)
}
