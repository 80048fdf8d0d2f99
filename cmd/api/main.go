package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saturnino-fabrica-de-software/chamada/internal/api"
	"github.com/saturnino-fabrica-de-software/chamada/internal/cache"
	"github.com/saturnino-fabrica-de-software/chamada/internal/config"
	"github.com/saturnino-fabrica-de-software/chamada/internal/face"
	"github.com/saturnino-fabrica-de-software/chamada/internal/metrics"
	"github.com/saturnino-fabrica-de-software/chamada/internal/ratelimit"
	"github.com/saturnino-fabrica-de-software/chamada/internal/repository"
	"github.com/saturnino-fabrica-de-software/chamada/internal/webhook"
	"github.com/saturnino-fabrica-de-software/chamada/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Chamada API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("face_provider", cfg.FaceProvider),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database pool
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to create database pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("database connected")

	// Face embedding provider
	faceProvider, err := face.NewFaceProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create face provider: %w", err)
	}

	deps := &api.Dependencies{
		StudentRepo:    repository.NewStudentRepository(pool),
		AttendanceRepo: repository.NewAttendanceRepository(pool),
		FaceProvider:   faceProvider,
		DB:             pool,
		APIKeyHash:     cfg.APIKeyHash,
		Threshold:      cfg.RecognitionThreshold,
	}

	if cfg.RecognizeRateLimit > 0 {
		deps.RateLimiter = ratelimit.NewRateLimiter(pool, time.Minute)
		deps.RateLimit = cfg.RecognizeRateLimit
	}

	if cfg.GalleryCacheTTL > 0 {
		deps.GalleryCache = cache.NewGalleryCache(cache.NewPGCache(pool), cfg.GalleryCacheTTL)
	}

	if cfg.LiveTokenSecret != "" {
		deps.Hub = ws.NewHub()
		deps.TokenService = ws.NewTokenService(cfg.LiveTokenSecret, "chamada", 5*time.Minute)
		go deps.Hub.Run()
		logger.Info("live feed enabled")
	}

	if cfg.WebhookURL != "" {
		deps.Webhooks = webhook.NewService(pool, cfg.WebhookURL, cfg.WebhookSecret)
		webhookWorker := webhook.NewWorker(pool, deps.Webhooks, logger)
		go webhookWorker.Run(ctx)
		logger.Info("webhook delivery enabled", slog.String("url", cfg.WebhookURL))
	}

	if cfg.RetentionDays > 0 {
		retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour
		retentionWorker := metrics.NewRetentionWorker(metrics.NewRepository(pool), logger, time.Hour, retention)
		go retentionWorker.Start(ctx)
	}

	// Setup router
	router := api.NewRouter(logger, deps)
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
