package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"travel-companion-service/internal/adapters/cache"
	"travel-companion-service/internal/adapters/geocode"
	"travel-companion-service/internal/adapters/location"
	"travel-companion-service/internal/adapters/rates"
	"travel-companion-service/internal/adapters/repositories"
	"travel-companion-service/internal/adapters/weather"
	"travel-companion-service/internal/domain"
)

type pipelineFixture struct {
	pipeline *LoadPipeline
	geocoder *geocode.MockGeocoder
	weather  *weather.MockWeatherProvider
	rates    *rates.MockRateProvider
	db       *sql.DB
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	geocoder := &geocode.MockGeocoder{
		Record: domain.PlaceRecord{
			City:             "Berlin",
			Country:          "Germany",
			FormattedAddress: "Berlin, Germany",
			CurrencyName:     "Euro",
			CurrencyCode:     "EUR",
			FlagGlyph:        "\U0001F1E9\U0001F1EA",
		},
	}
	weatherProvider := &weather.MockWeatherProvider{
		Snapshot: domain.WeatherSnapshot{ID: 800, Condition: "Clear", TempCelsius: 21.5, Humidity: 40},
		Daily:    []domain.DailyEntry{{Date: "2026-08-31", MinCelsius: 14, MaxCelsius: 24, Condition: "Clear"}},
		Hourly:   []domain.HourlyEntry{{Hour: "15:00", TempCelsius: 22, Condition: "Clear"}},
	}
	rateProvider := &rates.MockRateProvider{Rate: 1.08}

	now := time.Unix(1_700_000_000, 0)
	p := &LoadPipeline{
		Coordinates:     repositories.NewSqliteCoordinateRepository(db),
		Places:          repositories.NewSqlitePlaceRepository(db),
		Rates:           cache.NewSqliteRateCache(db, time.Hour),
		Geocoder:        geocoder,
		Weather:         weatherProvider,
		RateSource:      rateProvider,
		Location:        &location.StaticProvider{Lat: 52.52, Lon: 13.405},
		CompareCurrency: "USD",
		Now:             func() time.Time { return now },
	}

	return &pipelineFixture{
		pipeline: p,
		geocoder: geocoder,
		weather:  weatherProvider,
		rates:    rateProvider,
		db:       db,
	}
}

func TestPipelineRunColdCache(t *testing.T) {
	f := newPipelineFixture(t)

	var messages []string
	f.pipeline.Progress = func(msg string) { messages = append(messages, msg) }

	session, err := f.pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Coordinate.ID != 1 {
		t.Fatalf("coordinate id = %d, want 1", session.Coordinate.ID)
	}
	if session.Place.ID != 1 || session.Place.CoordinateID != 1 {
		t.Fatalf("place = %+v", session.Place)
	}
	if session.Place.CurrencyCode != "EUR" {
		t.Fatalf("currency code = %q, want EUR", session.Place.CurrencyCode)
	}
	if session.RateFromCache {
		t.Fatal("cold cache reported a rate hit")
	}
	if session.Rate.Rate != 1.08 || session.Rate.BaseCurrency != "EUR" || session.Rate.CompareCurrency != "USD" {
		t.Fatalf("rate = %+v", session.Rate)
	}
	if session.Weather.ID != 800 {
		t.Fatalf("weather = %+v", session.Weather)
	}
	if len(session.Daily) != 1 || len(session.Hourly) != 1 {
		t.Fatalf("forecasts = %d daily, %d hourly", len(session.Daily), len(session.Hourly))
	}

	if f.geocoder.Calls != 1 || f.rates.Calls != 1 {
		t.Fatalf("calls: geocoder=%d rates=%d, want 1 each", f.geocoder.Calls, f.rates.Calls)
	}
	if f.weather.CurrentCalls != 1 || f.weather.DailyCalls != 1 || f.weather.HourlyCalls != 1 {
		t.Fatalf("weather calls: current=%d daily=%d hourly=%d",
			f.weather.CurrentCalls, f.weather.DailyCalls, f.weather.HourlyCalls)
	}

	stage, _, message, cause := f.pipeline.Status()
	if stage != StageComplete {
		t.Fatalf("stage = %v, want complete", stage)
	}
	if cause != nil {
		t.Fatalf("cause = %v, want nil", cause)
	}
	if message != "Load complete." {
		t.Fatalf("message = %q", message)
	}
	if len(messages) != 5 {
		t.Fatalf("progress messages = %d, want 5: %q", len(messages), messages)
	}
}

func TestPipelineSecondRunHitsCaches(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	if _, err := f.pipeline.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No device fix on the second run: the last stored coordinate is reused,
	// which carries an identity and so keeps its place record reachable.
	f.pipeline.Location = &location.LastKnownProvider{
		Device:      &location.StaticProvider{},
		Coordinates: f.pipeline.Coordinates,
	}

	session, err := f.pipeline.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The stored place and the fresh rate snapshot serve the second run;
	// neither external source is contacted again.
	if f.geocoder.Calls != 1 {
		t.Fatalf("geocoder calls = %d, want 1", f.geocoder.Calls)
	}
	if f.rates.Calls != 1 {
		t.Fatalf("rate fetches = %d, want 1", f.rates.Calls)
	}
	if !session.RateFromCache {
		t.Fatal("fresh snapshot not served from cache")
	}
	if session.Coordinate.ID != 1 {
		t.Fatalf("coordinate id = %d, want 1", session.Coordinate.ID)
	}
	if session.Place.ID != 1 {
		t.Fatalf("place id = %d, want 1", session.Place.ID)
	}
}

func TestPipelineRepeatedFixReusesCoordinate(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	first, err := f.pipeline.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The device reports the identical fix again: the stored row is reused,
	// so the place lookup hits and no duplicate coordinate appears.
	second, err := f.pipeline.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.Coordinate.ID != first.Coordinate.ID {
		t.Fatalf("coordinate id = %d, want %d", second.Coordinate.ID, first.Coordinate.ID)
	}
	if f.geocoder.Calls != 1 {
		t.Fatalf("geocoder calls = %d, want 1", f.geocoder.Calls)
	}

	var count int
	if err := f.db.QueryRow(
		`SELECT COUNT(*) FROM coordinate WHERE latitude = ? AND longitude = ?;`, 52.52, 13.405,
	).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("identical coordinate rows = %d, want 1", count)
	}
}

func TestPipelineStaleRateTriggersRefetch(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	if _, err := f.pipeline.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.pipeline.Now = func() time.Time {
		return time.Unix(1_700_000_000, 0).Add(2 * time.Hour)
	}
	f.rates.Rate = 1.11

	session, err := f.pipeline.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.RateFromCache {
		t.Fatal("stale snapshot served as cached")
	}
	if f.rates.Calls != 2 {
		t.Fatalf("rate fetches = %d, want 2", f.rates.Calls)
	}
	if session.Rate.Rate != 1.11 {
		t.Fatalf("rate = %v, want 1.11", session.Rate.Rate)
	}
}

func TestPipelineGeocodeFailureAbortsRun(t *testing.T) {
	f := newPipelineFixture(t)
	f.geocoder.Err = domain.ErrGeocode

	_, err := f.pipeline.Run(context.Background())
	if !errors.Is(err, domain.ErrGeocode) {
		t.Fatalf("err = %v, want geocode error", err)
	}

	stage, failedStage, _, cause := f.pipeline.Status()
	if stage != StageFailed {
		t.Fatalf("stage = %v, want failed", stage)
	}
	if failedStage != StageResolvingPlace {
		t.Fatalf("failed stage = %v, want resolving place", failedStage)
	}
	if !errors.Is(cause, domain.ErrGeocode) {
		t.Fatalf("cause = %v, want geocode error", cause)
	}

	// Later stages never start.
	if f.rates.Calls != 0 {
		t.Fatalf("rate fetches = %d, want 0", f.rates.Calls)
	}
	if f.weather.CurrentCalls != 0 {
		t.Fatalf("weather calls = %d, want 0", f.weather.CurrentCalls)
	}

	// The coordinate from the aborted run is already durable; a retry with a
	// working geocoder completes normally.
	f.geocoder.Err = nil
	if _, err := f.pipeline.Run(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestPipelineSupersededRunAborts(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	// The first run is interrupted at its first stage boundary by a second
	// trigger, the way a backgrounded screen reopening would interrupt a load.
	var nested *Session
	triggered := false
	f.pipeline.Progress = func(msg string) {
		if triggered {
			return
		}
		triggered = true
		f.pipeline.Progress = nil

		s, err := f.pipeline.Run(ctx)
		if err != nil {
			t.Errorf("nested run failed: %v", err)
			return
		}
		nested = s
	}

	_, err := f.pipeline.Run(ctx)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("err = %v, want superseded", err)
	}
	if nested == nil {
		t.Fatal("nested run produced no session")
	}

	// The newer run owns the pipeline state.
	stage, _, _, cause := f.pipeline.Status()
	if stage != StageComplete {
		t.Fatalf("stage = %v, want complete", stage)
	}
	if cause != nil {
		t.Fatalf("cause = %v, want nil", cause)
	}

	// The overlap leaves storage consistent: only the completed run wrote a
	// place record, and only one rate was fetched.
	records, err := f.pipeline.Places.ListAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("place records = %d, want 1", len(records))
	}
	if f.rates.Calls != 1 {
		t.Fatalf("rate fetches = %d, want 1", f.rates.Calls)
	}
}

func TestPipelineMissingCurrencyCodeFails(t *testing.T) {
	f := newPipelineFixture(t)
	f.geocoder.Record.CurrencyCode = "  "

	_, err := f.pipeline.Run(context.Background())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}

	stage, failedStage, _, _ := f.pipeline.Status()
	if stage != StageFailed || failedStage != StageResolvingCurrency {
		t.Fatalf("stage = %v failed = %v, want failed at resolving currency", stage, failedStage)
	}
	if f.weather.CurrentCalls != 0 {
		t.Fatalf("weather calls = %d, want 0", f.weather.CurrentCalls)
	}
}

func TestPipelineNoLocationFix(t *testing.T) {
	f := newPipelineFixture(t)
	f.pipeline.Location = &location.StaticProvider{}

	_, err := f.pipeline.Run(context.Background())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}

	stage, failedStage, _, _ := f.pipeline.Status()
	if stage != StageFailed || failedStage != StageResolvingCoordinate {
		t.Fatalf("stage = %v failed = %v, want failed at resolving coordinate", stage, failedStage)
	}
	if f.geocoder.Calls != 0 {
		t.Fatalf("geocoder calls = %d, want 0", f.geocoder.Calls)
	}
}
