// @title Fitness Shop API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitness/internal/config"
	"fitness/internal/db"
	"fitness/internal/db/migrations"
	"fitness/internal/logger"
	"fitness/internal/routes"
	_ "github.com/lib/pq"
)

const tokenPurgeInterval = time.Hour

func main() {
	log := logger.SetupDefault(os.Stdout, os.Getenv("LOG_LEVEL"))

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	if cfg.AutoCreateDB {
		if err := db.CreateDatabaseIfNotExists(context.Background(), cfg.DatabaseURL, log); err != nil {
			log.Error("failed to ensure database exists", "error", err)
			os.Exit(1)
		}
	}

	if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s3Config, err := config.NewS3Config(ctx)
	if err != nil {
		log.Error("failed to load S3 config", "error", err)
		os.Exit(1)
	}
	if s3Config == nil {
		log.Info("S3_BUCKET_NAME not set, product image uploads disabled")
	}

	app, err := routes.NewApp(database.DB, cfg, s3Config, log)
	if err != nil {
		log.Error("failed to build services", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	go purgeVerificationTokens(ctx, app, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(database.DB, cfg, app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	// Give server 5 seconds to finish current requests
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exiting")
}

func purgeVerificationTokens(ctx context.Context, app *routes.App, log *slog.Logger) {
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.Accounts.PurgeExpiredVerificationTokens(ctx)
			if err != nil {
				log.Warn("purge expired verification tokens", "error", err)
				continue
			}
			if n > 0 {
				log.Info("purged expired verification tokens", "count", n)
			}
		}
	}
}
