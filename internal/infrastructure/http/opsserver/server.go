// Package opsserver serves health, readiness and Prometheus metrics on a
// port separate from the public API
package opsserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/infrastructure/config"
	"github.com/zoenutrition/zoe/internal/infrastructure/monitoring"
	"github.com/zoenutrition/zoe/pkg/healthcheck"
)

// Server is the operations HTTP server
type Server struct {
	engine *gin.Engine
	server *http.Server
	logger *zap.Logger
}

// NewServer wires the ops routes
func NewServer(cfg *config.Config, health *healthcheck.HealthCheck, metrics *monitoring.Metrics, logger *zap.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(metrics.GinMiddleware())

	engine.GET("/health", health.Handler())
	engine.GET("/ready", health.ReadinessHandler())
	engine.GET("/live", health.LivenessHandler())
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	return &Server{
		engine: engine,
		logger: logger.Named("ops-server"),
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Ops.Host, cfg.Ops.Port),
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
	}
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting ops server", zap.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
