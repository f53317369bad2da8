package monitoring

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "zoe"

// Metrics owns a dedicated Prometheus registry and the collectors
// registered on it
type Metrics struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	recommendationsGenerated *prometheus.CounterVec
	recommendationResponses  *prometheus.CounterVec
	searchResults            *prometheus.HistogramVec
	chatMessages             *prometheus.CounterVec

	priceUpdates      *prometheus.CounterVec
	priceUpdateRuns   prometheus.Counter
	breakerState      *prometheus.GaugeVec
	breakerTransition *prometheus.CounterVec
}

// NewMetrics creates the collectors with Go runtime and process collectors
// on a fresh registry
func NewMetrics(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger:   logger.Named("metrics"),
		registry: prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		recommendationsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recommendations_generated_total",
				Help:      "Recommendations returned by generation requests",
			},
			[]string{"meal"},
		),
		recommendationResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recommendation_responses_total",
				Help:      "Accepted and rejected recommendations",
			},
			[]string{"acceptance"},
		),
		searchResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results",
				Help:      "Number of items returned per search",
				Buckets:   []float64{0, 1, 5, 10, 20, 50},
			},
			[]string{"kind"},
		),
		chatMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chat_messages_total",
				Help:      "Chat messages by classified intent",
			},
			[]string{"intent"},
		),
		priceUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "price_updates_total",
				Help:      "Items processed by price update runs",
			},
			[]string{"outcome"},
		),
		priceUpdateRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "price_update_runs_total",
				Help:      "Completed price update runs",
			},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		breakerTransition: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_transitions_total",
				Help:      "Circuit breaker state transitions",
			},
			[]string{"name", "from", "to"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.recommendationsGenerated,
		m.recommendationResponses,
		m.searchResults,
		m.chatMessages,
		m.priceUpdates,
		m.priceUpdateRuns,
		m.breakerState,
		m.breakerTransition,
	)
	return m
}

// Registry exposes the registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDB exports connection pool statistics for db
func (m *Metrics) RegisterDB(db *sql.DB, name string) {
	if err := m.registry.Register(collectors.NewDBStatsCollector(db, name)); err != nil {
		m.logger.Warn("Failed to register DB stats collector", zap.String("db", name), zap.Error(err))
	}
}

// Middleware records request count and latency under the chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.observeHTTP(r.Method, route, status, time.Since(start))
	})
}

// GinMiddleware is Middleware for the gin ops server
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.observeHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func (m *Metrics) observeHTTP(method, route string, status int, took time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

// Business metric methods

func (m *Metrics) RecommendationsGenerated(meal string, count int) {
	m.recommendationsGenerated.WithLabelValues(meal).Add(float64(count))
}

func (m *Metrics) RecommendationResponded(acceptance string) {
	m.recommendationResponses.WithLabelValues(acceptance).Inc()
}

func (m *Metrics) SearchServed(kind string, results int) {
	m.searchResults.WithLabelValues(kind).Observe(float64(results))
}

func (m *Metrics) ChatMessage(intent string) {
	m.chatMessages.WithLabelValues(intent).Inc()
}

// PriceUpdateFinished records the outcome counts of one update run
func (m *Metrics) PriceUpdateFinished(updated, skipped, failed int) {
	m.priceUpdateRuns.Inc()
	m.priceUpdates.WithLabelValues("updated").Add(float64(updated))
	m.priceUpdates.WithLabelValues("skipped").Add(float64(skipped))
	m.priceUpdates.WithLabelValues("failed").Add(float64(failed))
}

// BreakerStateChanged matches the price source state callback
func (m *Metrics) BreakerStateChanged(name, from, to string) {
	m.breakerTransition.WithLabelValues(name, from, to).Inc()
	value := -1.0
	switch to {
	case "closed":
		value = 0
	case "half-open":
		value = 1
	case "open":
		value = 2
	}
	m.breakerState.WithLabelValues(name).Set(value)
}

// Handler returns the Prometheus metrics HTTP handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
