package web

import (
	"github.com/go-chi/chi/v5"
)

// Router wires all routes. Everything under /dashboard and /tickets sits
// behind the access guard.
func (h *Handlers) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(h.requestLogger)

	r.Get("/", h.Landing)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/signup", h.SignupForm)
		r.Post("/signup", h.Signup)
		r.Get("/login", h.LoginForm)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.protect)

		r.Get("/dashboard", h.Dashboard)

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", h.TicketsPage)
			r.Post("/", h.SubmitTicket)
			r.Post("/cancel-edit", h.CancelEdit)
			r.Post("/{id}/edit", h.BeginEdit)
			r.Post("/{id}/delete", h.RequestDelete)
			r.Post("/{id}/delete/confirm", h.ConfirmDelete)
			r.Post("/{id}/delete/cancel", h.CancelDelete)
		})
	})

	return r
}
