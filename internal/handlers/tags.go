package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kiatsakul2905/it-support-FAQ/internal/cache"
	"github.com/kiatsakul2905/it-support-FAQ/internal/slug"
	"github.com/kiatsakul2905/it-support-FAQ/internal/store"
)

// Tags groups the tag endpoints, cached the same way as categories.
type Tags struct {
	store *store.TagStore
	lists *cache.ListCache
}

// NewTags creates a new Tags handler group.
func NewTags(s *store.TagStore, lists *cache.ListCache) *Tags {
	return &Tags{store: s, lists: lists}
}

// List handles GET /api/tags.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := h.lists.Get(ctx, cache.KeyTags); ok {
		writeRaw(w, http.StatusOK, cached)
		return
	}

	items, err := h.store.List()
	if err != nil {
		slog.Error("list tags failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	body, err := json.Marshal(map[string]any{"tags": items})
	if err != nil {
		slog.Error("marshal tags failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.lists.Set(ctx, cache.KeyTags, body)
	writeRaw(w, http.StatusOK, body)
}

// Create handles POST /api/tags (admin).
func (h *Tags) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if msg := validateTag(body.Name); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.store.Create(body.Name, slug.Generate(body.Name))
	if err != nil {
		slog.Error("create tag failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.lists.Invalidate(r.Context(), cache.KeyTags)
	writeJSON(w, http.StatusCreated, map[string]any{"tag": created})
}
