package domain

// Weather payloads are owned by the external provider. The pipeline carries
// them through the session keyed by the provider-assigned snapshot identity;
// nothing here is persisted locally.
type WeatherSnapshot struct {
	ID          int64
	Condition   string
	Description string
	TempCelsius float64
	Humidity    int
}

type DailyEntry struct {
	Date       string
	MinCelsius float64
	MaxCelsius float64
	Condition  string
}

type HourlyEntry struct {
	Hour        string
	TempCelsius float64
	Condition   string
}
