// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/infrastructure/config"
	"github.com/zoenutrition/zoe/internal/infrastructure/http/handlers"
	"github.com/zoenutrition/zoe/internal/infrastructure/http/middleware"
	"github.com/zoenutrition/zoe/internal/infrastructure/http/render"
	"github.com/zoenutrition/zoe/internal/infrastructure/monitoring"
	"github.com/zoenutrition/zoe/internal/infrastructure/security"
	"github.com/zoenutrition/zoe/pkg/errors"
)

const requestTimeout = 30 * time.Second

// APIServer serves the JSON API under /api/v1
type APIServer struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   *chi.Mux
	handlers *handlers.APIHandlers
	auth     *security.AuthService
	metrics  *monitoring.Metrics
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	h *handlers.APIHandlers,
	auth *security.AuthService,
	metrics *monitoring.Metrics,
) *APIServer {
	s := &APIServer{
		config:   cfg,
		logger:   log.Named("api-server"),
		handlers: h,
		auth:     auth,
		metrics:  metrics,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: otelhttp.NewHandler(s.router, "zoe-api",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	return s
}

// setupRoutes configures the middleware chain and routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Recovery(s.logger))
	r.Use(s.metrics.Middleware)
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	r.Use(middleware.RateLimit(s.config.RateLimit))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, r, errors.NewNotFoundError("Route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, r, errors.NewBadRequestError("Method not allowed"))
	})

	r.Route("/api/v1", s.setupAPIV1Routes)

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *APIServer) setupAPIV1Routes(r chi.Router) {
	h := s.handlers

	// Administrative routes
	r.With(s.auth.RequireAPIKey, chimiddleware.Timeout(5*time.Minute)).Post("/prices/update", h.UpdatePrices)

	// Websocket connections outlive the request timeout
	r.With(s.auth.RequireUser).Get("/chat/ws", h.ChatSocket)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.RequireUser)
		r.Use(chimiddleware.Timeout(requestTimeout))

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/", h.ListRecommendations)
			r.Post("/generate", h.GenerateRecommendations)
			r.Post("/{id}/accept", h.AcceptRecommendation)
			r.Post("/{id}/reject", h.RejectRecommendation)
			r.Get("/{id}/explain", h.ExplainRecommendation)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/", h.Search)
			r.Post("/", h.SearchPost)
			r.Get("/autocomplete", h.Autocomplete)
			r.Get("/nutrition", h.SearchByNutrition)
		})

		r.Route("/foods", func(r chi.Router) {
			r.Get("/", h.ListFoods)
			r.Get("/{id}", h.GetFood)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/messages", h.SendChatMessage)
			r.Get("/history", h.ChatHistory)
		})

		r.Route("/prices", func(r chi.Router) {
			r.Get("/affordable", h.AffordableFoods)
			r.Get("/{id}/trend", h.PriceTrend)
			r.Post("/meal-cost", h.EstimateMealCost)
		})

		r.Route("/offline", func(r chi.Router) {
			r.Post("/enable", h.EnableOffline)
			r.Post("/disable", h.DisableOffline)
			r.Get("/data", h.OfflineData)
		})
	})
}

// Handler returns the root handler including tracing
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the API server and blocks until it stops
func (s *APIServer) Start() error {
	s.logger.Info("Starting API server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the API server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}
