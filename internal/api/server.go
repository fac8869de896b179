// Package api exposes the advisory pipeline over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arthsathi/arthsathi/internal/advisor"
	"github.com/arthsathi/arthsathi/internal/catalog"
	"github.com/arthsathi/arthsathi/internal/domain"
	"github.com/arthsathi/arthsathi/internal/ratelimit"
)

// Server represents the HTTP API server.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  domain.ServerConfig
}

// NewServer creates a new API server. adv may be nil when no Gemini key is
// configured; the catalog endpoints stay up and the advisory endpoints
// answer 503.
func NewServer(cfg domain.ServerConfig, adv *advisor.Advisor, filter *catalog.Filter, repo domain.Repository, bus domain.EventBus, limiter ratelimit.Limiter, version string) *Server {
	handler := NewHandler(adv, filter, repo, bus, version)
	router := chi.NewRouter()

	// Global middleware stack
	router.Use(CORSMiddleware)         // CORS for browser clients
	router.Use(RecoverMiddleware)      // Recover from panics
	router.Use(TracingMiddleware)      // OpenTelemetry tracing
	router.Use(LoggingMiddleware)      // Request logging
	router.Use(middleware.RealIP)      // Extract real IP
	router.Use(middleware.Compress(5)) // Gzip compression

	// Health endpoints
	router.Get("/health", handler.Health)
	router.Get("/ready", handler.Ready)

	router.Route("/api", func(r chi.Router) {
		// Catalog endpoints: static, never rate limited
		r.Get("/schemes", handler.ListSchemes)
		r.Get("/schemes/{id}", handler.GetScheme)

		// Advisory endpoints: each request costs generative API calls
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(RateLimitMiddleware(limiter))
			}
			r.Post("/analyze-profile", handler.AnalyzeProfile)
			r.Post("/get-recommendations", handler.GetRecommendations)
		})

		// Audit trail lookups, only when persistence is on
		if repo != nil {
			r.Get("/analyses/{id}", handler.GetAnalysis)
			r.Get("/recommendations/{id}", handler.GetRecommendation)
		}
	})

	return &Server{
		router:  router,
		handler: handler,
		config:  cfg,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Handler returns the handler for testing.
func (s *Server) Handler() *Handler {
	return s.handler
}
