package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"travel-companion-service/internal/domain"
	"travel-companion-service/internal/platform/obs"
	"travel-companion-service/internal/platform/webapi"
)

// OpenWeatherProvider implements the WeatherProvider port. Weather is always
// fetched live; the pipeline never caches it locally.
type OpenWeatherProvider struct {
	client  *webapi.Client
	apiKey  string
	baseURL string
}

func NewOpenWeatherProvider(apiKey string) (*OpenWeatherProvider, error) {
	if apiKey == "" {
		return nil, errors.New("OpenWeather api key is empty")
	}

	return &OpenWeatherProvider{
		client:  webapi.NewClient(10 * time.Second),
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org",
	}, nil
}

func (p *OpenWeatherProvider) get(ctx context.Context, path string, params map[string]string, out any) error {
	endpoint := p.baseURL + path

	makeReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		q.Set("appid", p.apiKey)
		q.Set("units", "metric")
		req.URL.RawQuery = q.Encode()
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := p.client.DoWithRetry(ctx, makeReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func coordParams(c domain.Coordinate) map[string]string {
	return map[string]string{
		"lat": strconv.FormatFloat(c.Latitude, 'f', -1, 64),
		"lon": strconv.FormatFloat(c.Longitude, 'f', -1, 64),
	}
}

type currentResponse struct {
	ID      int64 `json:"id"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
}

func (p *OpenWeatherProvider) CurrentWeather(ctx context.Context, c domain.Coordinate) (_ domain.WeatherSnapshot, err error) {
	defer obs.Time(ctx, "openweather.CurrentWeather")(&err)

	var decoded currentResponse
	if err := p.get(ctx, "/data/2.5/weather", coordParams(c), &decoded); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("current weather (%f, %f): %v: %w",
			c.Latitude, c.Longitude, err, domain.ErrWeather)
	}

	if decoded.ID == 0 || len(decoded.Weather) == 0 {
		return domain.WeatherSnapshot{}, fmt.Errorf("current weather (%f, %f): empty payload: %w",
			c.Latitude, c.Longitude, domain.ErrWeather)
	}

	return domain.WeatherSnapshot{
		ID:          decoded.ID,
		Condition:   decoded.Weather[0].Main,
		Description: decoded.Weather[0].Description,
		TempCelsius: decoded.Main.Temp,
		Humidity:    decoded.Main.Humidity,
	}, nil
}

type dailyResponse struct {
	List []struct {
		Date string `json:"date"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"list"`
}

func (p *OpenWeatherProvider) DailyForecast(ctx context.Context, weatherID int64, c domain.Coordinate) (_ []domain.DailyEntry, err error) {
	defer obs.Time(ctx, "openweather.DailyForecast")(&err)

	params := coordParams(c)
	params["id"] = strconv.FormatInt(weatherID, 10)

	var decoded dailyResponse
	if err := p.get(ctx, "/data/2.5/forecast/daily", params, &decoded); err != nil {
		return nil, fmt.Errorf("daily forecast weather_id=%d: %v: %w", weatherID, err, domain.ErrWeather)
	}

	entries := make([]domain.DailyEntry, 0, len(decoded.List))
	for _, d := range decoded.List {
		condition := ""
		if len(d.Weather) > 0 {
			condition = d.Weather[0].Main
		}
		entries = append(entries, domain.DailyEntry{
			Date:       d.Date,
			MinCelsius: d.Temp.Min,
			MaxCelsius: d.Temp.Max,
			Condition:  condition,
		})
	}

	return entries, nil
}

type hourlyResponse struct {
	List []struct {
		Hour    string  `json:"hour"`
		Temp    float64 `json:"temp"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"list"`
}

func (p *OpenWeatherProvider) HourlyForecast(ctx context.Context, weatherID int64, c domain.Coordinate) (_ []domain.HourlyEntry, err error) {
	defer obs.Time(ctx, "openweather.HourlyForecast")(&err)

	params := coordParams(c)
	params["id"] = strconv.FormatInt(weatherID, 10)

	var decoded hourlyResponse
	if err := p.get(ctx, "/data/2.5/forecast/hourly", params, &decoded); err != nil {
		return nil, fmt.Errorf("hourly forecast weather_id=%d: %v: %w", weatherID, err, domain.ErrWeather)
	}

	entries := make([]domain.HourlyEntry, 0, len(decoded.List))
	for _, h := range decoded.List {
		condition := ""
		if len(h.Weather) > 0 {
			condition = h.Weather[0].Main
		}
		entries = append(entries, domain.HourlyEntry{
			Hour:        h.Hour,
			TempCelsius: h.Temp,
			Condition:   condition,
		})
	}

	return entries, nil
}
