package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kiatsakul2905/it-support-FAQ/internal/cache"
	"github.com/kiatsakul2905/it-support-FAQ/internal/markdown"
	"github.com/kiatsakul2905/it-support-FAQ/internal/models"
	"github.com/kiatsakul2905/it-support-FAQ/internal/store"
)

// Problems groups the handlers for the problem endpoints: the filtered
// listing, single fetch with view counting, ratings, and the admin
// mutations. Mutations invalidate the cached category and tag lists,
// since their denormalized counters change alongside the problem rows.
type Problems struct {
	store *store.ProblemStore
	lists *cache.ListCache
}

// NewProblems creates a new Problems handler group.
func NewProblems(s *store.ProblemStore, lists *cache.ListCache) *Problems {
	return &Problems{store: s, lists: lists}
}

// problemBody is the JSON payload of the create and update endpoints.
// TagIDs is a pointer so update can distinguish "not sent" (keep links)
// from "sent empty" (remove all links).
type problemBody struct {
	Title      string `json:"title"`
	Symptoms   string `json:"symptoms"`
	Causes     string `json:"causes"`
	Solution   string `json:"solution"`
	CategoryID *int   `json:"categoryId"`
	TagIDs     *[]int `json:"tagIds"`
}

// List handles GET /api/problems. Filters: q, category, tag, sort,
// limit, offset. The response total reflects the returned page (after
// the tag post-filter), not the full match count; the pager in the UI
// was built against that behavior.
func (h *Problems) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	problems, err := h.store.List(store.ListFilters{
		Query:    params.Get("q"),
		Category: params.Get("category"),
		Tag:      params.Get("tag"),
		Sort:     params.Get("sort"),
		Limit:    parseIntOr(params.Get("limit"), store.DefaultLimit),
		Offset:   parseIntOr(params.Get("offset"), 0),
	})
	if err != nil {
		slog.Error("list problems failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"problems": problems,
		"total":    len(problems),
	})
}

// problemResponse is the single-fetch payload: the problem plus the
// solution rendered to HTML for the article page.
type problemResponse struct {
	models.Problem
	SolutionHTML string `json:"solutionHtml"`
}

// Get handles GET /api/problems/{slug}. Fetching an article counts as a
// view; the returned viewCount is the post-increment value.
func (h *Problems) Get(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	p, err := h.store.GetAndCountView(slugParam)
	if err != nil {
		slog.Error("get problem failed", "error", err, "slug", slugParam)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	solutionHTML, err := markdown.ToHTML(p.Solution)
	if err != nil {
		slog.Warn("render solution failed", "error", err, "slug", slugParam)
	}

	writeJSON(w, http.StatusOK, problemResponse{Problem: *p, SolutionHTML: solutionHTML})
}

// Create handles POST /api/problems (admin).
func (h *Problems) Create(w http.ResponseWriter, r *http.Request) {
	var body problemBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if msg := validateProblem(body.Title, body.Symptoms, body.Causes, body.Solution); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	in := store.CreateInput{
		Title:      body.Title,
		Symptoms:   body.Symptoms,
		Causes:     body.Causes,
		Solution:   body.Solution,
		CategoryID: body.CategoryID,
	}
	if body.TagIDs != nil {
		in.TagIDs = *body.TagIDs
	}

	p, err := h.store.Create(in)
	if err != nil {
		slog.Error("create problem failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.lists.Invalidate(r.Context(), cache.KeyCategories, cache.KeyTags)
	writeJSON(w, http.StatusCreated, map[string]any{"problem": p})
}

// Update handles PUT /api/problems/{slug} (admin). A changed title gets
// a new slug; the response carries the updated problem including it.
func (h *Problems) Update(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	var body problemBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if msg := validateProblem(body.Title, body.Symptoms, body.Causes, body.Solution); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p, err := h.store.Update(slugParam, store.UpdateInput{
		Title:      body.Title,
		Symptoms:   body.Symptoms,
		Causes:     body.Causes,
		Solution:   body.Solution,
		CategoryID: body.CategoryID,
		TagIDs:     body.TagIDs,
	})
	if err != nil {
		slog.Error("update problem failed", "error", err, "slug", slugParam)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	h.lists.Invalidate(r.Context(), cache.KeyCategories, cache.KeyTags)
	writeJSON(w, http.StatusOK, map[string]any{"problem": p})
}

// Delete handles DELETE /api/problems/{slug} (admin).
func (h *Problems) Delete(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	deleted, err := h.store.Delete(slugParam)
	if err != nil {
		slog.Error("delete problem failed", "error", err, "slug", slugParam)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	h.lists.Invalidate(r.Context(), cache.KeyCategories, cache.KeyTags)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Rate handles POST /api/problems/{slug}/rate. The rating value must be
// "helpful" or "not_helpful"; anything else is rejected before any row
// is touched. Duplicate-vote prevention is tracked client-side only.
func (h *Problems) Rate(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	var body struct {
		Rating string `json:"rating"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if body.Rating != models.RatingHelpful && body.Rating != models.RatingNotHelpful {
		writeError(w, http.StatusBadRequest, "invalid rating")
		return
	}

	counts, err := h.store.Rate(slugParam, body.Rating == models.RatingHelpful)
	if err != nil {
		slog.Error("rate problem failed", "error", err, "slug", slugParam)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if counts == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, counts)
}
