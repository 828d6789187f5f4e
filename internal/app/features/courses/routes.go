package courses

import (
	"github.com/go-chi/chi/v5"
	"github.com/rhinogeeks/coursedesk/internal/app/system/auth"
)

// PublicRoutes serves the visitor-facing catalog; mounted under /courses.
func PublicRoutes(h *PublicHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{slug}", h.ServeDetail)
	return r
}

// AdminRoutes serves catalog management; mounted under /admin/courses.
func AdminRoutes(h *AdminHandler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin", "superadmin"))

		pr.Get("/", h.ServeList)
		pr.Post("/", h.ServeCreate)
		pr.Get("/{id}", h.ServeGet)
		pr.Put("/{id}", h.ServeUpdate)
		pr.Post("/{id}/publish", h.ServePublish)
		pr.Delete("/{id}", h.ServeDelete)
	})

	return r
}
