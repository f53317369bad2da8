// Package security issues and verifies the credentials accepted by the API
package security

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/zoenutrition/zoe/internal/infrastructure/config"
	"github.com/zoenutrition/zoe/internal/infrastructure/http/render"
	"github.com/zoenutrition/zoe/pkg/errors"
)

const (
	// APIKeyHeader carries the key guarding administrative routes
	APIKeyHeader = "X-API-Key"

	defaultExpiration = 24 * time.Hour
)

var (
	// ErrInvalidToken is returned for tokens that fail signature, issuer or expiry checks
	ErrInvalidToken = stderrors.New("invalid token")
	// ErrMissingSecret is returned when no signing secret is configured
	ErrMissingSecret = stderrors.New("jwt secret not configured")
)

type contextKey struct{}

// Claims is the JWT payload. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// AuthService issues bearer tokens and checks API keys
type AuthService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	apiKeyHash []byte
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	expiration := cfg.JWTExpiration
	if expiration <= 0 {
		expiration = defaultExpiration
	}
	return &AuthService{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.Issuer,
		expiration: expiration,
		apiKeyHash: []byte(cfg.APIKeyHash),
		logger:     logger.Named("auth"),
		now:        time.Now,
	}
}

// IssueToken signs a token for the user and returns it with its expiry
func (s *AuthService) IssueToken(userID uuid.UUID) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}

	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken validates a token and returns the user it was issued to
func (s *AuthService) ParseToken(tokenString string) (uuid.UUID, error) {
	if len(s.secret) == 0 {
		return uuid.Nil, ErrMissingSecret
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, options...)
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	return userID, nil
}

// VerifyAPIKey reports whether key matches the configured bcrypt hash.
// Without a configured hash every key is rejected.
func (s *AuthService) VerifyAPIKey(key string) bool {
	if len(s.apiKeyHash) == 0 || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.apiKeyHash, []byte(key)) == nil
}

// HashAPIKey produces the value to store in auth.api_key_hash
func HashAPIKey(key string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(hash), nil
}

// RequireUser rejects requests without a valid bearer token and stores
// the authenticated user id in the request context. Websocket handshakes
// may pass the token as the access_token query parameter.
func (s *AuthService) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found && strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			// browsers cannot set headers on websocket handshakes
			token = r.URL.Query().Get("access_token")
			found = true
		}
		if !found || token == "" {
			render.Error(w, r, errors.NewUnauthorizedError("Authorization header required"))
			return
		}

		userID, err := s.ParseToken(token)
		if err != nil {
			s.logger.Debug("Rejected bearer token", zap.Error(err))
			render.Error(w, r, errors.NewUnauthorizedError("Invalid or expired token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// RequireAPIKey rejects requests whose X-API-Key does not verify
func (s *AuthService) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.VerifyAPIKey(r.Header.Get(APIKeyHeader)) {
			s.logger.Warn("Rejected API key", zap.String("path", r.URL.Path), zap.String("remote", r.RemoteAddr))
			render.Error(w, r, errors.NewUnauthorizedError("Valid API key required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUserID stores the authenticated user in ctx
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the user stored by RequireUser
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return userID, ok
}
