// Package healthcheck aggregates dependency checks behind the ops server's
// /health, /ready and /live endpoints
package healthcheck

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

var severity = map[Status]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}

func worst(a, b Status) Status {
	if severity[b] > severity[a] {
		return b
	}
	return a
}

const (
	checkTimeout       = 10 * time.Second
	defaultCacheTTL    = 5 * time.Second
	poolSaturationRate = 0.9
)

// Check is the outcome of one dependency probe
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"-"`
	DurationMs  float64       `json:"duration_ms"`
	Metadata    interface{}   `json:"metadata,omitempty"`
}

// Response is the /health body. Checks are sorted by name.
type Response struct {
	Status          Status        `json:"status"`
	Version         string        `json:"version"`
	Timestamp       time.Time     `json:"timestamp"`
	Checks          []Check       `json:"checks"`
	TotalDuration   time.Duration `json:"-"`
	TotalDurationMs float64       `json:"total_duration_ms"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// HealthCheck runs the registered checkers and caches the last report
type HealthCheck struct {
	version string
	logger  *zap.Logger

	mu       sync.RWMutex
	checkers map[string]Checker
	cache    *Response
	cacheTTL time.Duration
}

func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		checkers: make(map[string]Checker),
		logger:   logger,
		cacheTTL: defaultCacheTTL,
	}
}

// Register adds or replaces the checker reported under name
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
	h.cache = nil
}

// SetCacheTTL changes how long a report is reused. Zero disables caching.
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
}

// Handler serves the full report. Only unhealthy answers 503.
func (h *HealthCheck) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := h.Check(c.Request.Context())

		status := http.StatusOK
		if response.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, response)
	}
}

// LivenessHandler answers as long as the process serves requests
func (h *HealthCheck) LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive", "timestamp": time.Now()})
	}
}

// ReadinessHandler answers 200 only when every check is healthy and lists
// the failing checks otherwise
func (h *HealthCheck) ReadinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := h.Check(c.Request.Context())
		if response.Status == StatusHealthy {
			c.JSON(http.StatusOK, gin.H{"status": "ready", "timestamp": response.Timestamp})
			return
		}

		failing := make([]string, 0, len(response.Checks))
		for _, check := range response.Checks {
			if check.Status != StatusHealthy {
				failing = append(failing, check.Name)
			}
		}
		h.logger.Warn("Not ready", zap.String("status", string(response.Status)), zap.Strings("failing", failing))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"failing": failing,
			"checks":  response.Checks,
		})
	}
}

// Check runs every checker concurrently, or returns the cached report
// while it is younger than the cache TTL
func (h *HealthCheck) Check(ctx context.Context) Response {
	h.mu.RLock()
	if h.cache != nil && time.Since(h.cache.Timestamp) < h.cacheTTL {
		cached := *h.cache
		h.mu.RUnlock()
		return cached
	}
	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	checkers := make([]Checker, len(names))
	for i, name := range names {
		checkers[i] = h.checkers[name]
	}
	h.mu.RUnlock()

	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	checks := make([]Check, len(names))
	var wg sync.WaitGroup
	for i := range checkers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			checks[i] = checkers[i].Check(checkCtx)
			checks[i].Name = names[i]
		}(i)
	}
	wg.Wait()

	response := Response{
		Status:    StatusHealthy,
		Version:   h.version,
		Timestamp: start,
		Checks:    checks,
	}
	for _, check := range checks {
		response.Status = worst(response.Status, check.Status)
	}
	response.TotalDuration = time.Since(start)
	response.TotalDurationMs = milliseconds(response.TotalDuration)

	h.mu.Lock()
	h.cache = &response
	h.mu.Unlock()
	return response
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// timed runs probe and stamps the check with its name and timing
func timed(name string, probe func() (Status, string, interface{})) Check {
	start := time.Now()
	status, message, metadata := probe()
	took := time.Since(start)
	return Check{
		Name:        name,
		Status:      status,
		Message:     message,
		Metadata:    metadata,
		LastChecked: start,
		Duration:    took,
		DurationMs:  milliseconds(took),
	}
}

// DatabaseChecker pings the SQL pool behind gorm. A nearly saturated pool
// is degraded.
type DatabaseChecker struct {
	db *sql.DB
}

func NewDatabaseChecker(db *sql.DB) *DatabaseChecker {
	return &DatabaseChecker{db: db}
}

func (d *DatabaseChecker) Check(ctx context.Context) Check {
	return timed("database", func() (Status, string, interface{}) {
		if err := d.db.PingContext(ctx); err != nil {
			return StatusUnhealthy, err.Error(), nil
		}

		stats := d.db.Stats()
		pool := map[string]interface{}{
			"open_conns":  stats.OpenConnections,
			"in_use":      stats.InUse,
			"idle_conns":  stats.Idle,
			"max_conns":   stats.MaxOpenConnections,
			"wait_count":  stats.WaitCount,
			"wait_millis": stats.WaitDuration.Milliseconds(),
		}
		if stats.MaxOpenConnections > 0 &&
			float64(stats.InUse)/float64(stats.MaxOpenConnections) > poolSaturationRate {
			return StatusDegraded, "Connection pool nearly exhausted", pool
		}
		return StatusHealthy, "", pool
	})
}

// RedisChecker pings the offline snapshot cache
type RedisChecker struct {
	client redis.Cmdable
}

func NewRedisChecker(client redis.Cmdable) *RedisChecker {
	return &RedisChecker{client: client}
}

func (r *RedisChecker) Check(ctx context.Context) Check {
	return timed("redis", func() (Status, string, interface{}) {
		pong, err := r.client.Ping(ctx).Result()
		switch {
		case err != nil:
			return StatusUnhealthy, err.Error(), nil
		case pong != "PONG":
			return StatusUnhealthy, "Unexpected ping response " + pong, nil
		default:
			return StatusHealthy, "", nil
		}
	})
}

// CustomChecker adapts a function, such as the price source breaker state
type CustomChecker struct {
	name  string
	check func(ctx context.Context) (Status, string, interface{})
}

func NewCustomChecker(name string, check func(ctx context.Context) (Status, string, interface{})) *CustomChecker {
	return &CustomChecker{name: name, check: check}
}

func (c *CustomChecker) Check(ctx context.Context) Check {
	return timed(c.name, func() (Status, string, interface{}) { return c.check(ctx) })
}
