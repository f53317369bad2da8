// Package handlers provides the HTTP handlers of the JSON API
package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/infrastructure/http/render"
	"github.com/zoenutrition/zoe/internal/infrastructure/monitoring"
	"github.com/zoenutrition/zoe/internal/infrastructure/security"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
	"github.com/zoenutrition/zoe/pkg/errors"
)

// Services groups the inbound ports served over HTTP
type Services struct {
	Recommendations inbound.RecommendationService
	Search          inbound.SearchService
	Chat            inbound.ChatService
	Prices          inbound.PriceService
	Offline         inbound.OfflineService
}

// APIHandlers handles REST API requests
type APIHandlers struct {
	services Services
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewAPIHandlers creates a new API handlers instance. allowedOrigins
// restricts websocket upgrades the same way CORS restricts requests.
func NewAPIHandlers(services Services, metrics *monitoring.Metrics, allowedOrigins []string, logger *zap.Logger) *APIHandlers {
	return &APIHandlers{
		services: services,
		metrics:  metrics,
		logger:   logger.Named("api"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// fail writes err and records it on the request span. Server side
// failures are logged.
func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "")
	monitoring.RecordError(r.Context(), appErr)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
			zap.Error(appErr.Cause),
		)
	}
	render.Error(w, r, appErr)
}

// currentUser returns the user authenticated by the bearer middleware
func currentUser(r *http.Request) (uuid.UUID, error) {
	userID, ok := security.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, errors.NewUnauthorizedError("")
	}
	return userID, nil
}

func pathUUID(value, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.NewBadRequestError(name + " must be a valid UUID")
	}
	return id, nil
}

func pathInt(value, name string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError(name + " must be a positive integer")
	}
	return id, nil
}

// queryInt returns fallback when the parameter is absent or malformed
func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}

// queryFloat returns nil when the parameter is absent or malformed so
// the corresponding filter is skipped
func queryFloat(r *http.Request, key string) *float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

func queryBool(r *http.Request, key string) *bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return nil
	}
	return &v
}
