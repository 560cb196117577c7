// Package api provides the HTTP API server and handlers for the Edarh
// progress tracker.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/3mero/edarh-server/internal/config"
	"github.com/3mero/edarh-server/internal/ratelimit"
	"github.com/3mero/edarh-server/internal/store"
	"github.com/3mero/edarh-server/internal/validation"
)

// Version is reported in the OpenAPI document and health checks.
const Version = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     *store.Store
	services  *Services
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
	validator *validation.Validator

	uploadLimiter  *ratelimit.KeyedRateLimiter
	uploadMaxBytes int64
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, st *store.Store, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		// The web client may be served from any origin on the local network.
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-File-Name"},
		MaxAge:         300,
	}))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, Version)
	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:          st,
		services:       services,
		router:         router,
		api:            api,
		logger:         logger,
		validator:      validation.New(),
		uploadLimiter:  ratelimit.New(cfg.Upload.RatePerSecond, cfg.Upload.Burst),
		uploadMaxBytes: cfg.Upload.MaxBytes,
	}

	s.registerHealthRoutes()
	s.registerTrackerRoutes()
	s.registerMediaRoutes()
	s.registerShareRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.uploadLimiter.Stop()
}

// uploadRateLimit is a huma middleware guarding the upload endpoints.
// Keys by client address so one runaway uploader cannot starve others.
func (s *Server) uploadRateLimit(ctx huma.Context, next func(huma.Context)) {
	if !s.uploadLimiter.Allow(clientKey(ctx)) {
		s.logger.Warn("upload rate limit exceeded", "path", ctx.URL().Path)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests,
			"Too many uploads. Please try again later.")
		return
	}
	next(ctx)
}

// clientKey extracts a rate-limit key from the request.
func clientKey(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}
	return ctx.RemoteAddr()
}
