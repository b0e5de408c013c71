package envelope

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes body as JSON with the given status code. The body should
// already be an envelope; this is the single exit point for all responses.
func WriteJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// Write wraps data in a success envelope and writes it.
func Write(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, Wrap(data))
}

// WriteError wraps detail in a failure envelope and writes it.
func WriteError(w http.ResponseWriter, code int, detail any) {
	WriteJSON(w, code, WrapError(detail))
}

// WriteMinimal writes the bare success body. A 204 writes no body at all.
func WriteMinimal(w http.ResponseWriter, code int) {
	if code == http.StatusNoContent {
		w.WriteHeader(code)
		return
	}
	WriteJSON(w, code, Minimal())
}
