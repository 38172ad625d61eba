package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/nearby-rouen/nearby/internal/config"
	"github.com/nearby-rouen/nearby/internal/handlers"
	"github.com/nearby-rouen/nearby/internal/nearby"
	"github.com/nearby-rouen/nearby/internal/report"
	"github.com/nearby-rouen/nearby/internal/repository"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load base .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()
	cfg.InitializeLogging()

	if err := report.SetupSentry(cfg.SentryDSN, cfg.Environment, version); err != nil {
		log.Warn().Err(err).Msg("Sentry disabled")
	}
	defer report.FlushSentry()

	ctx := context.Background()

	var (
		finder  nearby.Finder
		pinger  handlers.Pinger
		dataset handlers.DatasetReporter
	)
	if cfg.DatabaseURL != "" {
		pgRepo, err := repository.NewPostgresFacilityRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			report.ReportError(err)
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pgRepo.Close()

		finder, pinger, dataset = pgRepo, pgRepo, pgRepo
		log.Info().Msg("PostgreSQL connection established")
	} else {
		log.Info().Str("path", cfg.DatabasePath).Msg("Opening SQLite dataset")

		sqliteDB, err := repository.NewSQLiteDB(ctx, cfg.DatabasePath)
		if err != nil {
			report.ReportError(err)
			log.Fatal().Err(err).Msg("Failed to initialize SQLite database")
		}
		defer sqliteDB.Close()

		sqliteRepo := repository.NewSQLiteFacilityRepository(sqliteDB.GetDB())
		finder, pinger, dataset = sqliteRepo, sqliteDB, sqliteRepo
		log.Info().Msg("SQLite database connection established")
	}

	service := nearby.NewService(finder)
	router := handlers.NewRouter(
		handlers.RouterConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RequestTimeout: cfg.RequestTimeout,
			StaticDir:      cfg.StaticDir,
		},
		handlers.NewFacilityHandler(service, cfg.StationRadius, cfg.CycleRadius),
		handlers.NewHealthHandler(pinger, dataset),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("version", version).
			Float64("station_radius", cfg.StationRadius).
			Float64("cycle_radius", cfg.CycleRadius).
			Msg("API server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			report.ReportError(err)
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
