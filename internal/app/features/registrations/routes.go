package registrations

import (
	"github.com/go-chi/chi/v5"
	"github.com/rhinogeeks/coursedesk/internal/app/system/auth"
)

// Routes serves the review queue; mounted under /admin/registrations.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin", "superadmin"))

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeDetail)
		pr.Post("/{id}/verify", h.ServeVerify)
	})

	return r
}
