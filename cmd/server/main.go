package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"travel-companion-service/internal/adapters/cache"
	"travel-companion-service/internal/adapters/geocode"
	"travel-companion-service/internal/adapters/location"
	"travel-companion-service/internal/adapters/rates"
	"travel-companion-service/internal/adapters/repositories"
	"travel-companion-service/internal/adapters/weather"
	"travel-companion-service/internal/api"
	"travel-companion-service/internal/config"
	"travel-companion-service/internal/platform/db"
	"travel-companion-service/internal/ports"
	"travel-companion-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, OpenCage, OpenWeather, exchange rates)
// behind ports and starts the HTTP server for the UI collaborator.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	port := config.Get("PORT", "8080")
	compareCurrency := config.Get("COMPARE_CURRENCY", "EUR")
	rateFreshness := config.GetDuration("RATE_FRESHNESS", cache.DefaultFreshness)
	ratesBaseURL := config.Get("RATES_BASE_URL", "https://api.exchangerate.host")
	deviceLat := config.GetFloat("DEVICE_LAT", 0)
	deviceLon := config.GetFloat("DEVICE_LON", 0)

	opencageKey := os.Getenv("OPENCAGE_API_KEY")
	if strings.TrimSpace(opencageKey) == "" {
		log.Fatal("OPENCAGE_API_KEY is required")
	}
	openweatherKey := os.Getenv("OPENWEATHER_API_KEY")
	if strings.TrimSpace(openweatherKey) == "" {
		log.Fatal("OPENWEATHER_API_KEY is required")
	}

	sqlDB, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	// Initialize the schema on startup for local runs.
	if err := repositories.InitSchema(sqlDB); err != nil {
		log.Fatal(err)
	}

	coordinates := repositories.NewSqliteCoordinateRepository(sqlDB)
	places := repositories.NewSqlitePlaceRepository(sqlDB)

	// The rate cache defaults to the local database; REDIS_ADDR switches to a
	// shared redis backend with the same freshness contract.
	var rateCache ports.RateCache = cache.NewSqliteRateCache(sqlDB, rateFreshness)
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		rateCache = cache.NewRedisRateCache(client, rateFreshness)
		log.Printf("rate cache backend=redis addr=%s", addr)
	}

	geocoder, err := geocode.NewOpenCageGeocoder(opencageKey)
	if err != nil {
		log.Fatal(err)
	}

	weatherProvider, err := weather.NewOpenWeatherProvider(openweatherKey)
	if err != nil {
		log.Fatal(err)
	}

	rateProvider, err := rates.NewExchangeRateProvider(ratesBaseURL)
	if err != nil {
		log.Fatal(err)
	}

	locationProvider := &location.LastKnownProvider{
		Device:      &location.StaticProvider{Lat: deviceLat, Lon: deviceLon},
		Coordinates: coordinates,
	}

	pipeline := &services.LoadPipeline{
		Coordinates:     coordinates,
		Places:          places,
		Rates:           rateCache,
		Geocoder:        geocoder,
		Weather:         weatherProvider,
		RateSource:      rateProvider,
		Location:        locationProvider,
		CompareCurrency: compareCurrency,
	}

	router := api.NewRouter(places, coordinates, pipeline)

	// Timeouts are tuned for cold-cache load runs (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
