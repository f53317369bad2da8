package opsserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/infrastructure/config"
	"github.com/zoenutrition/zoe/internal/infrastructure/monitoring"
	"github.com/zoenutrition/zoe/pkg/healthcheck"
)

func newTestServer(status healthcheck.Status) *Server {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Ops.Port = 9090

	health := healthcheck.New("test", zap.NewNop())
	health.Register("dep", healthcheck.NewCustomChecker("dep", func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		return status, "", nil
	}))
	return NewServer(cfg, health, monitoring.NewMetrics(zap.NewNop()), zap.NewNop())
}

func TestOpsRoutes(t *testing.T) {
	srv := newTestServer(healthcheck.StatusHealthy)

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestMetricsIncludeOpsRequests(t *testing.T) {
	srv := newTestServer(healthcheck.StatusHealthy)

	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `zoe_http_requests_total{method="GET",route="/health",status_code="200"} 1`)
}

func TestReadyFailsWhenDegraded(t *testing.T) {
	srv := newTestServer(healthcheck.StatusDegraded)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
