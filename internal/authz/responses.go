package authz

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteDenial writes a denial response untouched, preserving its status
// code and body.
func WriteDenial(w http.ResponseWriter, d *Denial) {
	WriteJSON(w, d.Status, d.Body)
}

// WriteError writes a plain error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
