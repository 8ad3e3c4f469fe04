package handlers

import (
	"errors"
	"log"
	"net/http"

	"travel-companion-service/internal/api/dto"
	"travel-companion-service/internal/services"
)

// LoadHandler triggers the load pipeline and exposes its state.
type LoadHandler struct {
	Pipeline *services.LoadPipeline
}

// Run executes a full load sequence and returns the resolved session.
func (h *LoadHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session, err := h.Pipeline.Run(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrSuperseded) {
			writeError(w, r, http.StatusConflict, "a newer load run took over")
			return
		}

		log.Printf("load pipeline failed: %v", err)
		_, failedStage, _, _ := h.Pipeline.Status()
		writeError(w, r, http.StatusBadGateway, "load failed at stage "+failedStage.String())
		return
	}

	writeJSON(w, r, http.StatusOK, toSessionResponse(session))
}

// Status reports the current stage and advisory message.
func (h *LoadHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stage, failedStage, message, cause := h.Pipeline.Status()

	res := dto.LoadStatusResponse{
		Stage:   stage.String(),
		Message: message,
	}
	if stage == services.StageFailed {
		res.FailedStage = failedStage.String()
		if cause != nil {
			res.Error = cause.Error()
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toSessionResponse(s *services.Session) dto.SessionResponse {
	place := s.Place
	if place.Coordinate.IsZero() {
		place.Coordinate = s.Coordinate
	}

	daily := make([]dto.DailyEntryResponse, 0, len(s.Daily))
	for _, d := range s.Daily {
		daily = append(daily, dto.DailyEntryResponse{
			Date:       d.Date,
			MinCelsius: d.MinCelsius,
			MaxCelsius: d.MaxCelsius,
			Condition:  d.Condition,
		})
	}

	hourly := make([]dto.HourlyEntryResponse, 0, len(s.Hourly))
	for _, h := range s.Hourly {
		hourly = append(hourly, dto.HourlyEntryResponse{
			Hour:        h.Hour,
			TempCelsius: h.TempCelsius,
			Condition:   h.Condition,
		})
	}

	return dto.SessionResponse{
		Place: toPlaceResponse(place),
		Rate: dto.RateResponse{
			BaseCurrency:    s.Rate.BaseCurrency,
			CompareCurrency: s.Rate.CompareCurrency,
			Rate:            s.Rate.Rate,
			FetchedAt:       s.Rate.FetchedAt,
			FromCache:       s.RateFromCache,
		},
		Weather: dto.WeatherResponse{
			ID:          s.Weather.ID,
			Condition:   s.Weather.Condition,
			Description: s.Weather.Description,
			TempCelsius: s.Weather.TempCelsius,
			Humidity:    s.Weather.Humidity,
		},
		Daily:       daily,
		Hourly:      hourly,
		CompletedAt: s.CompletedAt,
	}
}
