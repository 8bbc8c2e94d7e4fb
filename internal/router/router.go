// Package router sets up the HTTP routes and middleware chains for the
// knowledge-base API. Read endpoints are public; mutations sit behind the
// admin-key gate, and the externally reachable write endpoints are
// rate-limited per client IP.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kiatsakul2905/it-support-FAQ/internal/handlers"
	"github.com/kiatsakul2905/it-support-FAQ/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(adminKey string, limiter *middleware.RateLimiter, problems *handlers.Problems, categories *handlers.Categories, tags *handlers.Tags, auth *handlers.Auth) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/problems", func(r chi.Router) {
			r.Get("/", problems.List)
			r.Get("/{slug}", problems.Get)
			r.With(limiter.Middleware).Post("/{slug}/rate", problems.Rate)

			// Admin mutations.
			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware)
				r.Use(middleware.RequireAdminKey(adminKey))
				r.Post("/", problems.Create)
				r.Put("/{slug}", problems.Update)
				r.Delete("/{slug}", problems.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.With(limiter.Middleware, middleware.RequireAdminKey(adminKey)).Post("/", categories.Create)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.List)
			r.With(limiter.Middleware, middleware.RequireAdminKey(adminKey)).Post("/", tags.Create)
		})

		r.With(limiter.Middleware).Post("/admin/auth", auth.Verify)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
