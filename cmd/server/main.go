package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/padelpoint/booking-backend/internal/app"
	"github.com/padelpoint/booking-backend/internal/config"
	"github.com/padelpoint/booking-backend/internal/db"
	"github.com/padelpoint/booking-backend/internal/notify"
	"github.com/padelpoint/booking-backend/internal/pkg/cache"
	"github.com/padelpoint/booking-backend/internal/slot"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger = logger.Level(logLevel(cfg.LogLevel))

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer pool.Close()

	// Redis-backed availability cache; skipped when no addr is configured.
	var availabilityCache cache.Cache
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		availabilityCache = cache.NewRedisCache(redisClient, logger)
	}

	// Outbound mail; a no-op mailer is used when SMTP is not configured.
	var mailer notify.Mailer
	if cfg.SMTPHost != "" {
		mailer, err = notify.NewSMTPMailer(notify.Config{
			Host:         cfg.SMTPHost,
			Port:         cfg.SMTPPort,
			Username:     cfg.SMTPUsername,
			Password:     cfg.SMTPPassword,
			FromEmail:    cfg.FromEmail,
			FromName:     cfg.FromName,
			AdminEmail:   cfg.AdminEmail,
			SupportPhone: cfg.SupportPhone,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init mailer")
		}
	} else {
		logger.Warn().Msg("SMTP_HOST not set; outbound mail disabled")
	}

	window := slot.Window{OpenHour: cfg.OpenHour, CloseHour: cfg.CloseHour}
	if err := window.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid operating window")
	}

	container := app.NewContainer(app.Config{
		IsProduction:      cfg.IsProduction,
		ProdOrigins:       cfg.ProdOrigins,
		DBPool:            pool,
		Cache:             availabilityCache,
		Mailer:            mailer,
		JWTSecret:         cfg.JWTSecret,
		JWTTTL:            cfg.JWTAccessTokenTTL,
		BcryptCost:        cfg.BcryptCost,
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: cfg.AdminPasswordHash,
		Window:            window,
		Logger:            logger,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("server running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited gracefully")
}

func logLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
