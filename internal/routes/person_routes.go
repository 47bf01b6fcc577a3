package routes

import (
	"net/http"

	"fitness/internal/handlers"
	"fitness/internal/middleware"
	"fitness/internal/services"
	"github.com/go-chi/chi/v5"
)

// RegisterPersonRoutes mounts the account lifecycle endpoints. The unauthenticated
// ones share the per-IP limiter when one is given.
func RegisterPersonRoutes(router chi.Router, h *handlers.AccountHandler, limiter *middleware.RateLimiter, authenticated func(http.Handler) http.Handler) {
	router.Route("/person", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Post("/register", h.Register)
			r.Get("/confirm", h.Confirm)
			r.Post("/resend-verification", h.ResendVerification)
			r.Post("/login", h.Login)
			r.Post("/reset-password", h.RequestPasswordReset)
			r.Put("/update-password", h.UpdatePassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Put("/update", h.UpdateProfile)
			r.Put("/change-password", h.ChangePassword)
		})
	})
}

// RegisterEmailLinkRoutes serves the confirmation link mailed at registration, which
// points at the site root rather than the versioned API.
func RegisterEmailLinkRoutes(router chi.Router, h *handlers.AccountHandler, limiter *middleware.RateLimiter) {
	router.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Get(services.ConfirmEmailPath, h.Confirm)
	})
}

func RegisterAccountRoutes(router chi.Router, h *handlers.AccountHandler, authenticated, adminOnly func(http.Handler) http.Handler) {
	router.Route("/accounts", func(r chi.Router) {
		r.Use(authenticated, adminOnly)
		r.Get("/", h.ListAccounts)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetAccount)
			r.Delete("/", h.DeleteAccount)
		})
	})
}
