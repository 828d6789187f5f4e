package login

import (
	"github.com/go-chi/chi/v5"
	"github.com/rhinogeeks/coursedesk/internal/app/system/auth"
)

// Routes serves the staff session endpoints; mounted under /admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.ServeLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
	})

	return r
}
