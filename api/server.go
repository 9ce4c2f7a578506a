/*
server.go - HTTP router and middleware configuration

ROUTER: chi
  Lightweight, context-based, straightforward middleware stack.

MIDDLEWARE:
  1. Logger:     request logging
  2. Recoverer:  panic recovery (500 instead of crash)
  3. RequestID:  unique ID per request for tracing
  4. CORS:       cross-origin requests for the frontend

SECURITY NOTE:
  No authentication middleware. All endpoints are public; multi-tenant
  isolation and auth are out of scope for this service.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.Post("/upload_sales", h.UploadSales)
		r.Post("/upload_starting_inventory", h.UploadStartingInventory)

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.GetInventory)
			r.Post("/update", h.UpdateInventory)
		})

		r.Get("/history", h.GetHistory)
		r.Post("/reset", h.Reset)
	})

	return r
}
