package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/zoenutrition/zoe/internal/infrastructure/config"
	"github.com/zoenutrition/zoe/pkg/errors"
)

const testSecret = "test-secret-key-for-testing-only-32-bytes"

// AuthServiceTestSuite provides a test suite for AuthService
type AuthServiceTestSuite struct {
	suite.Suite
	authService *AuthService
	apiKey      string
}

// SetupTest builds a fresh service for each test
func (suite *AuthServiceTestSuite) SetupTest() {
	suite.apiKey = "prices-admin-key"
	hash, err := bcrypt.GenerateFromPassword([]byte(suite.apiKey), bcrypt.MinCost)
	suite.Require().NoError(err)

	suite.authService = NewAuthService(config.AuthConfig{
		JWTSecret:     testSecret,
		JWTExpiration: time.Hour,
		Issuer:        "zoe",
		APIKeyHash:    string(hash),
	}, zap.NewNop())
}

func (suite *AuthServiceTestSuite) TestTokenRoundTrip() {
	userID := uuid.New()

	token, expiresAt, err := suite.authService.IssueToken(userID)
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), token)
	assert.WithinDuration(suite.T(), time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	parsed, err := suite.authService.ParseToken(token)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), userID, parsed)
}

func (suite *AuthServiceTestSuite) TestTokenRejection() {
	userID := uuid.New()

	suite.Run("Expired", func() {
		suite.authService.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := suite.authService.IssueToken(userID)
		require.NoError(suite.T(), err)
		suite.authService.now = time.Now

		_, err = suite.authService.ParseToken(token)
		assert.ErrorIs(suite.T(), err, ErrInvalidToken)
	})

	suite.Run("WrongSecret", func() {
		other := NewAuthService(config.AuthConfig{JWTSecret: "another-secret", Issuer: "zoe"}, zap.NewNop())
		token, _, err := other.IssueToken(userID)
		require.NoError(suite.T(), err)

		_, err = suite.authService.ParseToken(token)
		assert.ErrorIs(suite.T(), err, ErrInvalidToken)
	})

	suite.Run("WrongIssuer", func() {
		other := NewAuthService(config.AuthConfig{JWTSecret: testSecret, Issuer: "someone-else"}, zap.NewNop())
		token, _, err := other.IssueToken(userID)
		require.NoError(suite.T(), err)

		_, err = suite.authService.ParseToken(token)
		assert.ErrorIs(suite.T(), err, ErrInvalidToken)
	})

	suite.Run("SubjectNotAUserID", func() {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			Issuer:    "zoe",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(suite.T(), err)

		_, err = suite.authService.ParseToken(token)
		assert.ErrorIs(suite.T(), err, ErrInvalidToken)
	})

	suite.Run("UnsignedToken", func() {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    "zoe",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(suite.T(), err)

		_, err = suite.authService.ParseToken(token)
		assert.ErrorIs(suite.T(), err, ErrInvalidToken)
	})

	suite.Run("Garbage", func() {
		_, err := suite.authService.ParseToken("definitely.not.a.jwt")
		assert.ErrorIs(suite.T(), err, ErrInvalidToken)
	})
}

func (suite *AuthServiceTestSuite) TestMissingSecret() {
	service := NewAuthService(config.AuthConfig{}, zap.NewNop())

	_, _, err := service.IssueToken(uuid.New())
	assert.ErrorIs(suite.T(), err, ErrMissingSecret)

	_, err = service.ParseToken("anything")
	assert.ErrorIs(suite.T(), err, ErrMissingSecret)
}

func (suite *AuthServiceTestSuite) TestAPIKey() {
	assert.True(suite.T(), suite.authService.VerifyAPIKey(suite.apiKey))
	assert.False(suite.T(), suite.authService.VerifyAPIKey("wrong"))
	assert.False(suite.T(), suite.authService.VerifyAPIKey(""))

	unconfigured := NewAuthService(config.AuthConfig{JWTSecret: testSecret}, zap.NewNop())
	assert.False(suite.T(), unconfigured.VerifyAPIKey(suite.apiKey))
}

func (suite *AuthServiceTestSuite) TestHashAPIKey() {
	hash, err := HashAPIKey("rotated-key", bcrypt.MinCost)
	require.NoError(suite.T(), err)

	service := NewAuthService(config.AuthConfig{APIKeyHash: hash}, zap.NewNop())
	assert.True(suite.T(), service.VerifyAPIKey("rotated-key"))
	assert.False(suite.T(), service.VerifyAPIKey("prices-admin-key"))
}

func (suite *AuthServiceTestSuite) TestRequireUser() {
	var seen uuid.UUID
	handler := suite.authService.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	suite.Run("ValidToken", func() {
		userID := uuid.New()
		token, _, err := suite.authService.IssueToken(userID)
		require.NoError(suite.T(), err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(suite.T(), http.StatusOK, w.Code)
		assert.Equal(suite.T(), userID, seen)
	})

	suite.Run("NoHeader", func() {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
		var response errors.ErrorResponse
		require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(suite.T(), errors.CodeUnauthorized, response.Error.Code)
		assert.Equal(suite.T(), "Authorization header required", response.Error.Message)
	})

	suite.Run("WrongScheme", func() {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	})

	suite.Run("InvalidToken", func() {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer invalid")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
		var response errors.ErrorResponse
		require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(suite.T(), "Invalid or expired token", response.Error.Message)
	})
}

func (suite *AuthServiceTestSuite) TestRequireAPIKey() {
	called := false
	handler := suite.authService.RequireAPIKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/prices/update", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.False(suite.T(), called)

	req = httptest.NewRequest(http.MethodPost, "/prices/update", nil)
	req.Header.Set(APIKeyHeader, suite.apiKey)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
	assert.True(suite.T(), called)
}

func TestUserIDFromContext_Missing(t *testing.T) {
	_, ok := UserIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}

// TestAuthServiceSuite runs the auth service test suite
func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func TestRequireUser_WebsocketQueryToken(t *testing.T) {
	service := NewAuthService(config.AuthConfig{JWTSecret: testSecret, Issuer: "zoe"}, zap.NewNop())
	userID := uuid.New()
	token, _, err := service.IssueToken(userID)
	require.NoError(t, err)

	var seen uuid.UUID
	handler := service.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/chat/ws?access_token="+token, nil)
	req.Header.Set("Upgrade", "websocket")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, seen)

	// the query parameter is ignored on plain requests
	req = httptest.NewRequest(http.MethodGet, "/chat/history?access_token="+token, nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
