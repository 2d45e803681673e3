package routes

import (
	"net/http"

	"github.com/AnshRaj112/journal-backend/internal/handlers"
	"github.com/AnshRaj112/journal-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Journal     *handlers.JournalHandler
	Auth        *handlers.AuthHandler
	EntryWrites *middleware.EntryWriteLimiter
}

func SetupRoutes(r chi.Router, h Handlers) {
	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	// Auth routes
	r.Post("/api/auth/signup", h.Auth.Signup)
	r.Post("/api/auth/signin", h.Auth.Signin)
	r.Get("/api/auth/me", h.Auth.Me)
	r.Post("/api/auth/signout", h.Auth.Signout)

	// Journaling routes
	r.Route("/api/entries", func(r chi.Router) {
		if h.EntryWrites != nil {
			r.Use(h.EntryWrites.Middleware)
		}
		r.Get("/", h.Journal.List)
		r.Post("/", h.Journal.Create)
		r.Get("/{id}", h.Journal.Get)
		r.Put("/{id}", h.Journal.Update)
		r.Delete("/{id}", h.Journal.Delete)
	})
}
