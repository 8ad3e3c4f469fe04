package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// writeJSON encodes v with the given status. An encoding failure can only be
// logged; the status line is already on the wire by then.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

// writeError wraps msg in the {"error": ...} envelope every endpoint uses.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}
