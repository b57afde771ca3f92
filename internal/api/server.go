// Package api provides the HTTP API server and handlers for the MediaSync
// service.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/openlodging/mediasync/internal/config"
	"github.com/openlodging/mediasync/internal/http/response"
	"github.com/openlodging/mediasync/internal/ratelimit"
	"github.com/openlodging/mediasync/internal/service"
	"github.com/openlodging/mediasync/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	media     *service.MediaService
	docs      service.DocumentStore
	catalog   service.CatalogStore
	validator *validation.Validator
	limiter   *ratelimit.KeyedRateLimiter
	router    *chi.Mux
	cfg       *config.Config
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	media *service.MediaService,
	docs service.DocumentStore,
	cat service.CatalogStore,
	validator *validation.Validator,
	limiter *ratelimit.KeyedRateLimiter,
	cfg *config.Config,
	logger *slog.Logger,
) *Server {
	s := &Server{
		media:     media,
		docs:      docs,
		catalog:   cat,
		validator: validator,
		limiter:   limiter,
		router:    chi.NewRouter(),
		cfg:       cfg,
		logger:    logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Inbound image events.
		r.Post("/events", s.handleIngestEvent)

		// Media state reads.
		r.Route("/media/{guid}", func(r chi.Router) {
			r.Get("/", s.handleGetMedia)
			r.Get("/rooms", s.handleGetMediaRooms)
		})

		// Property-level reads.
		r.Get("/properties/{propertyID}/heroes", s.handleGetPropertyHeroes)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
