// Package handlers contains the thin JSON adapters between the HTTP
// surface and the stores. Handlers validate input, call one store
// operation, and map its result onto the response envelope the Thai UI
// consumes: payloads on success, {"error": "..."} otherwise.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeRaw sends an already serialized JSON body (cached responses).
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeError sends the API error envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON parses the request body into dst. Returns false (and writes
// a 400) when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseIntOr parses a numeric query parameter, falling back to the
// default for empty or malformed values instead of rejecting the
// request.
func parseIntOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
