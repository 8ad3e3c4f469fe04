package domain

// Reverse-geocoded place description and currency profile for one coordinate.
// At most one PlaceRecord exists per coordinate identity (enforced by a unique
// index on coordinate_id). PhotoReference is the only field mutated after
// creation, via an explicit update.
type PlaceRecord struct {
	ID               int64
	CoordinateID     int64
	Coordinate       Coordinate // denormalized; zero-valued until resolved by the caller
	Road             string
	District         string
	Locality         string
	City             string
	County           string
	Country          string
	FormattedAddress string
	CurrencyName     string
	CurrencyCode     string
	FlagGlyph        string
	PhotoReference   string
}

// HasIdentity reports whether the record has already been persisted.
func (p PlaceRecord) HasIdentity() bool { return p.ID > 0 }
