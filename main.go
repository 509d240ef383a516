package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/transcript-hub/backend/internal/api"
	"github.com/transcript-hub/backend/internal/auth"
	"github.com/transcript-hub/backend/internal/config"
	"github.com/transcript-hub/backend/internal/db"
	"github.com/transcript-hub/backend/internal/export"
	"github.com/transcript-hub/backend/internal/logging"
	"github.com/transcript-hub/backend/internal/metrics"
)

func main() {
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataPath, 0755); err != nil {
		log.Fatal().Err(err).Str("path", cfg.DataPath).Msg("Failed to create data directory")
	}

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer database.Close()

	// Ensure admin user exists
	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin user")
	}
	log.Info().Str("username", cfg.AdminUsername).Msg("Admin user ensured")

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	if _, ok := export.NormalizePageSize(cfg.PageSize); !ok {
		log.Warn().Str("page_size", cfg.PageSize).Msg("Unsupported EXPORT_PAGE_SIZE, using A4")
	}
	exporter := export.New(
		export.WithLogger(logging.WithComponent("export")),
		export.WithPageSize(cfg.PageSize),
		export.WithPDFCompression(cfg.PDFCompress),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := api.NewRouter(ctx, database, jwtService, cfg, exporter, m, reg)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("db", cfg.DBPath).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
