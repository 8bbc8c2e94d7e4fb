package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AdminKeyHeader is the request header clients supply the shared admin
// secret in.
const AdminKeyHeader = "X-Admin-Key"

// RequireAdminKey gates mutating endpoints behind the shared admin secret.
// The comparison is constant-time. An empty configured secret means the
// admin surface is not set up at all; every request is rejected with 500
// rather than silently accepting an empty header.
func RequireAdminKey(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeJSONError(w, http.StatusInternalServerError, "admin key not configured")
				return
			}

			supplied := r.Header.Get(AdminKeyHeader)
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSONError emits the API error envelope without importing the
// handlers package (which would be a cycle).
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
