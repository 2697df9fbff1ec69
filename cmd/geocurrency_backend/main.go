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

	"github.com/SscSPs/geocurrency/internal/core/services"
	"github.com/SscSPs/geocurrency/internal/handlers"
	"github.com/SscSPs/geocurrency/internal/middleware"
	"github.com/SscSPs/geocurrency/internal/platform/bootstrap"
	"github.com/SscSPs/geocurrency/internal/platform/config"
	"github.com/SscSPs/geocurrency/internal/utils"
	"github.com/gin-gonic/gin"
)

// @title Geocurrency API
// @version 1.0
// @description Currency conversion, unit conversion and formula evaluation.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := bootstrap.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	batches, closeCache, err := bootstrap.NewBatchSettings(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open batch cache", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeCache()

	provider, err := bootstrap.NewRateProvider(cfg, logger)
	if err != nil {
		logger.Error("Failed to create rate provider", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Rate provider configured", slog.String("provider", provider.Name()), slog.Bool("fetch_on_miss", cfg.RatesFetchOnMiss))

	infra, err := bootstrap.NewInfrastructure(cfg, batches, provider)
	if err != nil {
		logger.Error("Failed to load reference data", slog.String("error", err.Error()))
		os.Exit(1)
	}
	serviceContainer := services.NewServiceContainer(repos, infra)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, posthogClient); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}
