package register

import "github.com/go-chi/chi/v5"

// Routes serves the public registration endpoints; mounted under /register.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeSubmit)
	r.Post("/apply-promo", h.ServeApplyPromo)
	r.Get("/{reference}", h.ServeStatus)
	return r
}
