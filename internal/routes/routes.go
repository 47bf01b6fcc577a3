package routes

import (
	"database/sql"
	"net/http"

	"fitness/internal/config"
	"fitness/internal/handlers"
	"fitness/internal/metrics"
	appmw "fitness/internal/middleware"
	"fitness/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(db *sql.DB, cfg *config.Config, app *App) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(app.Logger, app.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	health := handlers.NewHealthHandler(db)
	r.Get("/", health.Root)
	r.Get("/health", health.Health)
	if app.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(app.Gatherer))
	}
	RegisterSwaggerRoutes(r)

	authenticated := appmw.JWTAuth(cfg.JWTSecret)
	adminOnly := appmw.RequireRole(string(models.RoleAdmin))

	accountHandler := handlers.NewAccountHandler(app.Accounts, app.Logger)
	RegisterEmailLinkRoutes(r, accountHandler, app.AuthLimiter)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		RegisterPersonRoutes(r, accountHandler, app.AuthLimiter, authenticated)
		RegisterAccountRoutes(r, accountHandler, authenticated, adminOnly)
		RegisterProductRoutes(r, handlers.NewProductHandler(app.Products, app.Logger), authenticated, adminOnly)
		RegisterCartRoutes(r, handlers.NewCartHandler(app.Orders, app.Logger), authenticated)
		RegisterOrderRoutes(r, handlers.NewOrderHandler(app.Orders, app.Logger), authenticated, adminOnly)
		RegisterCardRoutes(r, handlers.NewCardHandler(app.Cards, app.Logger), authenticated)
	})

	return r
}
