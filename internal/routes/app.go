package routes

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"fitness/internal/auth"
	"fitness/internal/config"
	"fitness/internal/metrics"
	"fitness/internal/middleware"
	"fitness/internal/repository"
	"fitness/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"
)

// App holds the services behind the HTTP API.
type App struct {
	Accounts *services.AccountService
	Products *services.ProductService
	Orders   *services.OrderService
	Cards    *services.CardService

	Logger      *slog.Logger
	Metrics     metrics.Recorder
	Gatherer    prometheus.Gatherer
	AuthLimiter *middleware.RateLimiter
}

func newMailer(cfg *config.Config, logger *slog.Logger) services.EmailSender {
	if cfg.SMTPHost == "" {
		return &services.LogSender{Logger: logger}
	}
	return &services.SMTPSender{
		Host:   cfg.SMTPHost,
		Port:   cfg.SMTPPort,
		User:   cfg.SMTPUser,
		Pass:   cfg.SMTPPass,
		From:   cfg.SMTPFrom,
		UseTLS: cfg.SMTPUseTLS,
	}
}

// NewApp wires repositories, mail, sessions and metrics into the services. A nil
// s3Config disables product image uploads.
func NewApp(db *sql.DB, cfg *config.Config, s3Config *config.S3Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.NewCollector(registry)

	store := repository.NewStore(db)
	hasher := services.NewBcryptHasher(bcrypt.DefaultCost)
	authn, err := services.NewAuthenticator(store.Accounts(), hasher)
	if err != nil {
		return nil, fmt.Errorf("create authenticator: %w", err)
	}

	accounts := services.NewAccountService(services.AccountServiceDeps{
		Store:         store,
		Tokens:        services.NewTokenIssuer(),
		Mailer:        newMailer(cfg, logger),
		Authenticator: authn,
		Sessions:      auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiresInSeconds)*time.Second),
		Hasher:        hasher,
		Metrics:       rec,
		Logger:        logger,
		Config: services.LifecycleConfig{
			SiteHost:        cfg.SiteHost,
			SitePort:        cfg.SitePort,
			VerificationTTL: cfg.VerificationTokenTTL,
			ResetTTL:        cfg.ResetTokenTTL,
		},
	})

	var images services.ImageStore
	if s3Config != nil && s3Config.Client != nil {
		images = services.NewS3ImageStore(s3Config)
	}

	return &App{
		Accounts:    accounts,
		Products:    services.NewProductService(store.Products(), services.NewDescriptionSanitizer(), images, logger),
		Orders:      services.NewOrderService(store, rec, logger),
		Cards:       services.NewCardService(store.PaymentCards()),
		Logger:      logger,
		Metrics:     rec,
		Gatherer:    registry,
		AuthLimiter: middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitPerMinute, cfg.RateLimitBurst)),
	}, nil
}

// Close stops background work owned by the app.
func (a *App) Close() {
	if a.AuthLimiter != nil {
		a.AuthLimiter.Stop()
	}
}
