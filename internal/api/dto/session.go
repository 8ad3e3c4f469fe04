package dto

import "time"

type RateResponse struct {
	BaseCurrency    string    `json:"base_currency"`
	CompareCurrency string    `json:"compare_currency"`
	Rate            float64   `json:"rate"`
	FetchedAt       time.Time `json:"fetched_at"`
	FromCache       bool      `json:"from_cache"`
}

type WeatherResponse struct {
	ID          int64   `json:"id"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	TempCelsius float64 `json:"temp_celsius"`
	Humidity    int     `json:"humidity"`
}

type DailyEntryResponse struct {
	Date       string  `json:"date"`
	MinCelsius float64 `json:"min_celsius"`
	MaxCelsius float64 `json:"max_celsius"`
	Condition  string  `json:"condition"`
}

type HourlyEntryResponse struct {
	Hour        string  `json:"hour"`
	TempCelsius float64 `json:"temp_celsius"`
	Condition   string  `json:"condition"`
}

type SessionResponse struct {
	Place       PlaceResponse         `json:"place"`
	Rate        RateResponse          `json:"rate"`
	Weather     WeatherResponse       `json:"weather"`
	Daily       []DailyEntryResponse  `json:"daily"`
	Hourly      []HourlyEntryResponse `json:"hourly"`
	CompletedAt time.Time             `json:"completed_at"`
}

type LoadStatusResponse struct {
	Stage       string `json:"stage"`
	FailedStage string `json:"failed_stage,omitempty"`
	Message     string `json:"message"`
	Error       string `json:"error,omitempty"`
}
