package domain

// Geographic coordinate with its persisted identity.
// ID is zero until the coordinate has been stored; a non-zero ID marks the
// value as canonical and it must never be re-inserted.
type Coordinate struct {
	ID        int64
	Latitude  float64
	Longitude float64
}

// HasIdentity reports whether the coordinate has already been persisted.
func (c Coordinate) HasIdentity() bool { return c.ID > 0 }

// IsZero reports whether both components are missing (zero-equivalent).
func (c Coordinate) IsZero() bool { return c.Latitude == 0 && c.Longitude == 0 }
