package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"travel-companion-service/internal/domain"
	"travel-companion-service/internal/platform/obs"
	"travel-companion-service/internal/platform/webapi"
)

// OpenCageGeocoder implements the Geocoder port using the OpenCage
// reverse-geocoding API. The annotations block carries the currency profile
// and flag glyph that end up denormalized on the place record.
type OpenCageGeocoder struct {
	client  *webapi.Client
	apiKey  string
	baseURL string
}

func NewOpenCageGeocoder(apiKey string) (*OpenCageGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("OpenCage api key is empty")
	}

	return &OpenCageGeocoder{
		client:  webapi.NewClient(10 * time.Second),
		apiKey:  apiKey,
		baseURL: "https://api.opencagedata.com",
	}, nil
}

type reverseResponse struct {
	Results []struct {
		Components struct {
			Road         string `json:"road"`
			CityDistrict string `json:"city_district"`
			Suburb       string `json:"suburb"`
			Village      string `json:"village"`
			Town         string `json:"town"`
			City         string `json:"city"`
			County       string `json:"county"`
			Country      string `json:"country"`
		} `json:"components"`
		Formatted   string `json:"formatted"`
		Annotations struct {
			Currency struct {
				Name    string `json:"name"`
				ISOCode string `json:"iso_code"`
			} `json:"currency"`
			Flag string `json:"flag"`
		} `json:"annotations"`
	} `json:"results"`
}

// Resolve the coordinate into a place description. An empty result set is a
// geocode failure; the pipeline treats it the same as a network error.
func (g *OpenCageGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinate) (_ domain.PlaceRecord, err error) {
	defer obs.Time(ctx, "opencage.ReverseGeocode")(&err)

	if c.IsZero() {
		return domain.PlaceRecord{}, fmt.Errorf(
			"reverse geocode: missing coordinate components: %w", domain.ErrValidation,
		)
	}

	endpoint := g.baseURL + "/geocode/v1/json"

	makeReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("q", fmt.Sprintf("%f,%f", c.Latitude, c.Longitude))
		q.Set("key", g.apiKey)
		q.Set("limit", "1")
		q.Set("no_annotations", "0")
		req.URL.RawQuery = q.Encode()
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := g.client.DoWithRetry(ctx, makeReq)
	if err != nil {
		return domain.PlaceRecord{}, fmt.Errorf("reverse geocode (%f, %f): %v: %w",
			c.Latitude, c.Longitude, err, domain.ErrGeocode)
	}
	defer resp.Body.Close()

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.PlaceRecord{}, fmt.Errorf("reverse geocode (%f, %f): decode response: %v: %w",
			c.Latitude, c.Longitude, err, domain.ErrGeocode)
	}

	if len(decoded.Results) == 0 {
		return domain.PlaceRecord{}, fmt.Errorf("reverse geocode (%f, %f): empty result: %w",
			c.Latitude, c.Longitude, domain.ErrGeocode)
	}

	r := decoded.Results[0]

	district := r.Components.CityDistrict
	if district == "" {
		district = r.Components.Suburb
	}
	locality := r.Components.Village
	if locality == "" {
		locality = r.Components.Town
	}

	return domain.PlaceRecord{
		CoordinateID:     c.ID,
		Coordinate:       c,
		Road:             r.Components.Road,
		District:         district,
		Locality:         locality,
		City:             r.Components.City,
		County:           r.Components.County,
		Country:          r.Components.Country,
		FormattedAddress: r.Formatted,
		CurrencyName:     r.Annotations.Currency.Name,
		CurrencyCode:     r.Annotations.Currency.ISOCode,
		FlagGlyph:        r.Annotations.Flag,
	}, nil
}
