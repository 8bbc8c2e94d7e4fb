package handlers

import (
	"crypto/subtle"
	"net/http"
)

// Auth verifies the shared admin secret for the admin UI's login screen.
// The actual gate on mutating endpoints is the middleware; this endpoint
// only lets the client check a key before storing it locally.
type Auth struct {
	adminKey string
}

// NewAuth creates a new Auth handler with the configured admin secret.
func NewAuth(adminKey string) *Auth {
	return &Auth{adminKey: adminKey}
}

// Verify handles POST /api/admin/auth with {"password": "..."}.
func (h *Auth) Verify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if h.adminKey == "" {
		writeError(w, http.StatusInternalServerError, "admin key not configured")
		return
	}

	if subtle.ConstantTimeCompare([]byte(body.Password), []byte(h.adminKey)) == 1 {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	writeJSON(w, http.StatusUnauthorized, map[string]bool{"ok": false})
}
