package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kiatsakul2905/it-support-FAQ/internal/cache"
	"github.com/kiatsakul2905/it-support-FAQ/internal/models"
	"github.com/kiatsakul2905/it-support-FAQ/internal/slug"
	"github.com/kiatsakul2905/it-support-FAQ/internal/store"
)

// Categories groups the category endpoints. The list response is served
// from the Valkey cache when possible; it is invalidated here on create
// and by the problem mutations that move the problem counters.
type Categories struct {
	store *store.CategoryStore
	lists *cache.ListCache
}

// NewCategories creates a new Categories handler group.
func NewCategories(s *store.CategoryStore, lists *cache.ListCache) *Categories {
	return &Categories{store: s, lists: lists}
}

// List handles GET /api/categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := h.lists.Get(ctx, cache.KeyCategories); ok {
		writeRaw(w, http.StatusOK, cached)
		return
	}

	items, err := h.store.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	body, err := json.Marshal(map[string]any{"categories": items})
	if err != nil {
		slog.Error("marshal categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.lists.Set(ctx, cache.KeyCategories, body)
	writeRaw(w, http.StatusOK, body)
}

// Create handles POST /api/categories (admin). The slug derives from the
// name without a uniqueness suffix; a duplicate name surfaces as an error
// from the unique constraint.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string  `json:"name"`
		Icon        string  `json:"icon"`
		Color       string  `json:"color"`
		Description *string `json:"description"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if msg := validateCategory(body.Name, body.Icon, body.Color); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.store.Create(&models.Category{
		Name:        body.Name,
		Slug:        slug.Generate(body.Name),
		Icon:        body.Icon,
		Color:       body.Color,
		Description: body.Description,
	})
	if err != nil {
		slog.Error("create category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.lists.Invalidate(r.Context(), cache.KeyCategories)
	writeJSON(w, http.StatusCreated, map[string]any{"category": created})
}
