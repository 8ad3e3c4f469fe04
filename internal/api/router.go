package api

import (
	"net/http"

	"travel-companion-service/internal/api/handlers"
	"travel-companion-service/internal/ports"
	"travel-companion-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	places ports.PlaceStore,
	coordinates ports.CoordinateStore,
	pipeline *services.LoadPipeline,
) http.Handler {
	mux := http.NewServeMux()

	placeHandler := &handlers.PlaceHandler{
		Places:      places,
		Coordinates: coordinates,
	}
	loadHandler := &handlers.LoadHandler{Pipeline: pipeline}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/places", placeHandler.List)
	mux.HandleFunc("/places/{id}", placeHandler.Delete)
	mux.HandleFunc("/places/{id}/photo", placeHandler.UpdatePhoto)
	mux.HandleFunc("/load", loadHandler.Run)
	mux.HandleFunc("/load/status", loadHandler.Status)

	return loggingMiddleware(mux)
}
