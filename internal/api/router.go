package api

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/transcript-hub/backend/internal/api/handlers"
	"github.com/transcript-hub/backend/internal/api/middleware"
	"github.com/transcript-hub/backend/internal/auth"
	"github.com/transcript-hub/backend/internal/config"
	"github.com/transcript-hub/backend/internal/db"
	"github.com/transcript-hub/backend/internal/export"
	"github.com/transcript-hub/backend/internal/logging"
	"github.com/transcript-hub/backend/internal/metrics"
)

// NewRouter wires every route. ctx bounds background work such as the
// login rate limiter's sweeper; gatherer backs the /metrics endpoint.
func NewRouter(
	ctx context.Context,
	database *db.Database,
	jwtService *auth.JWTService,
	cfg *config.Config,
	exporter *export.Exporter,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logging.WithComponent("http"), m))
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	healthHandler := handlers.NewHealthHandler(database)
	authHandler := handlers.NewAuthHandler(database, jwtService)
	folderHandler := handlers.NewFolderHandler(database)
	transcriptHandler := handlers.NewTranscriptHandler(database)
	exportHandler := handlers.NewExportHandler(database, exporter, m, logging.WithComponent("export"))

	loginLimiter := middleware.NewRateLimiter(ctx, cfg.LoginRateLimit, time.Minute)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		// Auth (public)
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(cfg.MaxBodyBytes))
			r.With(loginLimiter.Handler).Post("/auth/login", authHandler.Login)
			r.With(loginLimiter.Handler).Post("/auth/register", authHandler.Register)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))
			r.Use(middleware.MaxBodySize(cfg.MaxBodyBytes))

			r.Get("/auth/me", authHandler.Me)

			// Folders
			r.Get("/folders", folderHandler.List)
			r.Post("/folders", folderHandler.Create)
			r.Get("/folders/{id}", folderHandler.Get)
			r.Patch("/folders/{id}", folderHandler.Update)
			r.Delete("/folders/{id}", folderHandler.Delete)

			// Transcripts
			r.Get("/transcripts", transcriptHandler.List)
			r.Post("/transcripts", transcriptHandler.Create)
			r.Get("/transcripts/{id}", transcriptHandler.Get)
			r.Patch("/transcripts/{id}", transcriptHandler.Update)
			r.Delete("/transcripts/{id}", transcriptHandler.Delete)

			// Export
			r.Get("/export/{id}", exportHandler.Export)
		})
	})

	return r
}
