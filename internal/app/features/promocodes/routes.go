package promocodes

import (
	"github.com/go-chi/chi/v5"
	"github.com/rhinogeeks/coursedesk/internal/app/system/auth"
)

// Routes serves promo code management; mounted under /admin/promo-codes.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin", "superadmin"))

		pr.Get("/", h.ServeList)
		pr.Post("/", h.ServeCreate)
		pr.Delete("/{id}", h.ServeDelete)
	})

	return r
}
