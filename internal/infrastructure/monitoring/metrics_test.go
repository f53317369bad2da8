package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := NewMetrics(zap.NewNop())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/foods/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/foods/1", "/foods/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/foods/{id}", "418")))
}

func TestBusinessMetrics(t *testing.T) {
	m := NewMetrics(zap.NewNop())

	m.RecommendationsGenerated("lunch", 3)
	m.RecommendationsGenerated("lunch", 2)
	m.RecommendationResponded("accepted")
	m.ChatMessage("greeting")
	m.PriceUpdateFinished(4, 2, 1)
	m.SearchServed("text", 5)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.recommendationsGenerated.WithLabelValues("lunch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recommendationResponses.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chatMessages.WithLabelValues("greeting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.priceUpdateRuns))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.priceUpdates.WithLabelValues("updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.priceUpdates.WithLabelValues("failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.searchResults))
}

func TestBreakerStateChanged(t *testing.T) {
	m := NewMetrics(zap.NewNop())

	m.BreakerStateChanged("price-source-simulated", "closed", "open")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.breakerState.WithLabelValues("price-source-simulated")))

	m.BreakerStateChanged("price-source-simulated", "open", "half-open")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.breakerState.WithLabelValues("price-source-simulated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.breakerTransition.WithLabelValues("price-source-simulated", "closed", "open")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := NewMetrics(zap.NewNop())
	m.ChatMessage("budget")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	m.RegisterDB(sqlDB, "primary")
	// a second registration under the same name is logged, not fatal
	m.RegisterDB(sqlDB, "primary")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(body, `zoe_chat_messages_total{intent="budget"} 1`))
	assert.Contains(t, body, `go_sql_open_connections{db_name="primary"}`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNewMetrics_Independent(t *testing.T) {
	a := NewMetrics(zap.NewNop())
	b := NewMetrics(zap.NewNop())
	a.ChatMessage("greeting")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.chatMessages.WithLabelValues("greeting")))
}
