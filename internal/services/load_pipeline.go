package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"travel-companion-service/internal/domain"
	"travel-companion-service/internal/ports"
)

// Stage of the load pipeline's sequential state machine.
type Stage int

const (
	StageIdle Stage = iota
	StageResolvingCoordinate
	StageResolvingPlace
	StageResolvingCurrency
	StageResolvingWeather
	StageResolvingDailyHourly
	StageComplete
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "Idle"
	case StageResolvingCoordinate:
		return "ResolvingCoordinate"
	case StageResolvingPlace:
		return "ResolvingPlace"
	case StageResolvingCurrency:
		return "ResolvingCurrency"
	case StageResolvingWeather:
		return "ResolvingWeather"
	case StageResolvingDailyHourly:
		return "ResolvingDailyHourly"
	case StageComplete:
		return "Complete"
	case StageFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ErrSuperseded is returned by a run that a newer trigger has replaced.
// The older run stops at its next stage boundary; the store-level
// idempotent-insert guards keep the overlap harmless in the meantime.
var ErrSuperseded = errors.New("pipeline run superseded by a newer trigger")

// LoadPipeline runs the five-stage load sequence:
// coordinate -> place -> currency rates -> weather -> daily/hourly weather.
//
// Stages execute strictly sequentially; any stage failure aborts the rest
// and leaves the pipeline in Failed with the stage and cause recorded.
// Progress messages are advisory, for display only.
type LoadPipeline struct {
	Coordinates ports.CoordinateStore
	Places      ports.PlaceStore
	Rates       ports.RateCache
	Geocoder    ports.Geocoder
	Weather     ports.WeatherProvider
	RateSource  ports.RateProvider
	Location    ports.LocationProvider

	// Fixed reference currency each place's currency is compared against.
	CompareCurrency string
	// Optional advisory progress callback for the UI collaborator.
	Progress func(message string)
	// Test hook; time.Now when nil.
	Now func() time.Time

	mu          sync.Mutex
	stage       Stage
	failedStage Stage
	cause       error
	message     string
	generation  uint64
}

// Status reports the current stage, the last advisory message and, when the
// stage is Failed, the stage that failed and its cause.
func (p *LoadPipeline) Status() (stage Stage, failedStage Stage, message string, cause error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stage, p.failedStage, p.message, p.cause
}

func (p *LoadPipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// enter moves to the next stage unless a newer run has taken over.
func (p *LoadPipeline) enter(gen uint64, s Stage, msg string) error {
	p.mu.Lock()
	if p.generation != gen {
		p.mu.Unlock()
		return ErrSuperseded
	}
	p.stage = s
	p.message = msg
	progress := p.Progress
	p.mu.Unlock()

	log.Printf("pipeline stage=%s msg=%q", s, msg)
	if progress != nil {
		progress(msg)
	}
	return nil
}

func (p *LoadPipeline) fail(gen uint64, s Stage, cause error) error {
	p.mu.Lock()
	if p.generation == gen {
		p.stage = StageFailed
		p.failedStage = s
		p.cause = cause
	}
	p.mu.Unlock()

	return fmt.Errorf("stage %s: %w", s, cause)
}

// Run executes the load sequence and returns the resolved session.
// Each call supersedes any run still in flight.
func (p *LoadPipeline) Run(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.stage = StageIdle
	p.failedStage = StageIdle
	p.cause = nil
	p.message = ""
	p.mu.Unlock()

	session := &Session{}

	// Stage 1: a canonical coordinate identity is required by everything else.
	if err := p.enter(gen, StageResolvingCoordinate, "Loading last/current location."); err != nil {
		return nil, err
	}

	coord, err := p.Location.CurrentCoordinate(ctx)
	if err != nil {
		return nil, p.fail(gen, StageResolvingCoordinate, fmt.Errorf("obtain coordinate: %w", err))
	}

	if !coord.HasIdentity() {
		// A repeated fix must resolve to its stored row: no two coordinate
		// rows may share a position, and a fresh identity here would also
		// orphan the place record cached for the old one.
		known, ferr := p.Coordinates.FindByPosition(ctx, coord.Latitude, coord.Longitude)
		switch {
		case ferr == nil:
			coord = known
		case errors.Is(ferr, domain.ErrNotFound):
			stored, status, err := p.Coordinates.Upsert(ctx, coord)
			if err != nil {
				return nil, p.fail(gen, StageResolvingCoordinate, fmt.Errorf("persist coordinate: %w", err))
			}
			if status == domain.PersistStatusRejected || !stored.HasIdentity() {
				return nil, p.fail(gen, StageResolvingCoordinate, fmt.Errorf(
					"persist coordinate: no identity obtained: %w", domain.ErrPersistence,
				))
			}
			coord = stored
		default:
			return nil, p.fail(gen, StageResolvingCoordinate, fmt.Errorf("resolve coordinate: %w", ferr))
		}
	}
	session.Coordinate = coord

	// Stage 2: reuse a stored place record when one exists; geocoding is the
	// expensive call this cache-hit path exists to avoid.
	if err := p.enter(gen, StageResolvingPlace, "Location set. Loading place info."); err != nil {
		return nil, err
	}

	place, err := p.Places.GetByCoordinateID(ctx, coord.ID)
	switch {
	case err == nil:
		// cache hit
	case errors.Is(err, domain.ErrNotFound):
		fetched, gerr := p.Geocoder.ReverseGeocode(ctx, coord)
		if gerr != nil {
			return nil, p.fail(gen, StageResolvingPlace, fmt.Errorf("reverse geocode: %w", gerr))
		}
		fetched.CoordinateID = coord.ID

		created, status, cerr := p.Places.Create(ctx, fetched)
		if cerr != nil {
			return nil, p.fail(gen, StageResolvingPlace, fmt.Errorf("persist place: %w", cerr))
		}
		if status == domain.PersistStatusRejected || !created.HasIdentity() {
			return nil, p.fail(gen, StageResolvingPlace, fmt.Errorf(
				"persist place: no identity obtained: %w", domain.ErrPersistence,
			))
		}
		place = created
	default:
		// Includes ErrAmbiguous: a broken uniqueness invariant is a hard
		// failure, never resolved by picking a row.
		return nil, p.fail(gen, StageResolvingPlace, fmt.Errorf("load place: %w", err))
	}
	session.Place = place

	// Stage 3: serve rates from the cache while fresh; fetch and append
	// a new snapshot otherwise.
	if err := p.enter(gen, StageResolvingCurrency, "Place set. Loading currency rates."); err != nil {
		return nil, err
	}

	base := strings.TrimSpace(place.CurrencyCode)
	if base == "" {
		return nil, p.fail(gen, StageResolvingCurrency, fmt.Errorf(
			"place id=%d has no currency code: %w", place.ID, domain.ErrValidation,
		))
	}

	snap, fromCache, err := p.Rates.GetRate(ctx, base, p.CompareCurrency, p.now())
	if err != nil {
		return nil, p.fail(gen, StageResolvingCurrency, fmt.Errorf("read rate cache: %w", err))
	}
	if !fromCache {
		rate, ferr := p.RateSource.FetchRate(ctx, base, p.CompareCurrency)
		if ferr != nil {
			return nil, p.fail(gen, StageResolvingCurrency, fmt.Errorf("fetch rate: %w", ferr))
		}

		stored, serr := p.Rates.Store(ctx, base, p.CompareCurrency, rate, p.now())
		if serr != nil {
			return nil, p.fail(gen, StageResolvingCurrency, fmt.Errorf("store rate: %w", serr))
		}
		snap = stored
	}
	session.Rate = snap
	session.RateFromCache = fromCache

	// Stage 4: weather is time-sensitive and always fetched live.
	if err := p.enter(gen, StageResolvingWeather, "Currency rates set. Loading current weather."); err != nil {
		return nil, err
	}

	current, err := p.Weather.CurrentWeather(ctx, coord)
	if err != nil {
		return nil, p.fail(gen, StageResolvingWeather, fmt.Errorf("current weather: %w", err))
	}
	session.Weather = current

	// Stage 5: both forecasts must land before the session is complete.
	if err := p.enter(gen, StageResolvingDailyHourly, "Loading daily and hourly forecasts."); err != nil {
		return nil, err
	}

	daily, err := p.Weather.DailyForecast(ctx, current.ID, coord)
	if err != nil {
		return nil, p.fail(gen, StageResolvingDailyHourly, fmt.Errorf("daily forecast: %w", err))
	}
	hourly, err := p.Weather.HourlyForecast(ctx, current.ID, coord)
	if err != nil {
		return nil, p.fail(gen, StageResolvingDailyHourly, fmt.Errorf("hourly forecast: %w", err))
	}
	session.Daily = daily
	session.Hourly = hourly

	p.mu.Lock()
	if p.generation != gen {
		p.mu.Unlock()
		return nil, ErrSuperseded
	}
	p.stage = StageComplete
	p.message = "Load complete."
	p.mu.Unlock()

	session.CompletedAt = p.now()
	return session, nil
}
