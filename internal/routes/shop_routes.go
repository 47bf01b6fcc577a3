package routes

import (
	"net/http"

	"fitness/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func RegisterCartRoutes(router chi.Router, h *handlers.CartHandler, authenticated func(http.Handler) http.Handler) {
	router.Route("/cart", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", h.Get)
		r.Post("/", h.Add)
		r.Delete("/", h.Clear)
		r.Put("/{itemID}", h.Update)
		r.Delete("/{itemID}", h.Remove)
	})
}

func RegisterOrderRoutes(router chi.Router, h *handlers.OrderHandler, authenticated, adminOnly func(http.Handler) http.Handler) {
	router.Route("/orders", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/", h.Checkout)
		r.Get("/", h.ListMine)
		r.Get("/{id}", h.Get)
	})

	router.Route("/admin/orders", func(r chi.Router) {
		r.Use(authenticated, adminOnly)
		r.Get("/", h.ListAll)
		r.Put("/{id}/status", h.UpdateStatus)
	})
}

func RegisterCardRoutes(router chi.Router, h *handlers.CardHandler, authenticated func(http.Handler) http.Handler) {
	router.Route("/cards", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/", h.Add)
		r.Get("/", h.List)
		r.Delete("/{id}", h.Delete)
	})
}
