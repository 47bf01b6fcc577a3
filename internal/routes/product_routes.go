package routes

import (
	"net/http"

	"fitness/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func RegisterProductRoutes(router chi.Router, h *handlers.ProductHandler, authenticated, adminOnly func(http.Handler) http.Handler) {
	router.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticated, adminOnly)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/image", h.UploadImage)
		})
	})
}
