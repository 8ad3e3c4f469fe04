package dto

type PlaceResponse struct {
	ID               int64   `json:"id"`
	CoordinateID     int64   `json:"coordinate_id"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Road             string  `json:"road"`
	District         string  `json:"district"`
	Locality         string  `json:"locality"`
	City             string  `json:"city"`
	County           string  `json:"county"`
	Country          string  `json:"country"`
	FormattedAddress string  `json:"formatted_address"`
	CurrencyName     string  `json:"currency_name"`
	CurrencyCode     string  `json:"currency_code"`
	FlagGlyph        string  `json:"flag_glyph"`
	PhotoReference   string  `json:"photo_reference,omitempty"`
}

type ListPlacesResponse struct {
	Places []PlaceResponse `json:"places"`
}

type UpdatePhotoRequest struct {
	PhotoReference string `json:"photo_reference"`
}
