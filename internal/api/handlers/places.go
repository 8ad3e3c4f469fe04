package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"travel-companion-service/internal/api/dto"
	"travel-companion-service/internal/domain"
	"travel-companion-service/internal/ports"
)

// PlaceHandler exposes the saved-place CRUD surface to the UI collaborator.
type PlaceHandler struct {
	Places      ports.PlaceStore
	Coordinates ports.CoordinateStore
}

// List returns every saved place, resolving missing embedded coordinates
// through the coordinate store (the place store never joins implicitly).
func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records, err := h.Places.ListAll(r.Context())
	if err != nil {
		log.Printf("list places failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPlacesResponse{Places: make([]dto.PlaceResponse, 0, len(records))}
	for _, p := range records {
		if p.Coordinate.IsZero() && p.CoordinateID > 0 {
			c, err := h.Coordinates.GetByID(r.Context(), p.CoordinateID)
			if err != nil {
				// The place stays listable; the map view just has no pin.
				log.Printf("resolve coordinate for place id=%d failed: %v", p.ID, err)
			} else {
				p.Coordinate = c
			}
		}

		res.Places = append(res.Places, toPlaceResponse(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Delete removes a saved place by identity. Its coordinate is kept.
func (h *PlaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", http.MethodDelete)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.Places.DeleteByID(r.Context(), id)
	if err != nil {
		log.Printf("delete place id=%d failed: %v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		writeError(w, r, http.StatusNotFound, "place not found")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

// UpdatePhoto sets the photo reference of a saved place.
func (h *PlaceHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", http.MethodPut)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePhotoRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if strings.TrimSpace(req.PhotoReference) == "" {
		writeError(w, r, http.StatusBadRequest, "photo_reference is required")
		return
	}

	updated, err := h.Places.UpdatePhotoReference(r.Context(), req.PhotoReference, id)
	if err != nil {
		log.Printf("update place photo id=%d failed: %v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !updated {
		writeError(w, r, http.StatusNotFound, "place not found")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]bool{"updated": true})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, r, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func toPlaceResponse(p domain.PlaceRecord) dto.PlaceResponse {
	return dto.PlaceResponse{
		ID:               p.ID,
		CoordinateID:     p.CoordinateID,
		Latitude:         p.Coordinate.Latitude,
		Longitude:        p.Coordinate.Longitude,
		Road:             p.Road,
		District:         p.District,
		Locality:         p.Locality,
		City:             p.City,
		County:           p.County,
		Country:          p.Country,
		FormattedAddress: p.FormattedAddress,
		CurrencyName:     p.CurrencyName,
		CurrencyCode:     p.CurrencyCode,
		FlagGlyph:        p.FlagGlyph,
		PhotoReference:   p.PhotoReference,
	}
}
