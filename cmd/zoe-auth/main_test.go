package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/zoenutrition/zoe/internal/infrastructure/config"
	"github.com/zoenutrition/zoe/internal/infrastructure/security"
)

func TestToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  jwt_secret: cli-secret\n"), 0o600))

	userID := uuid.New()
	var stdout, stderr bytes.Buffer
	code := run([]string{"token", "-config", path, "-user", userID.String()}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	auth := security.NewAuthService(config.AuthConfig{JWTSecret: "cli-secret", Issuer: "zoe"}, zap.NewNop())
	parsed, err := auth.ParseToken(strings.TrimSpace(stdout.String()))
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestToken_InvalidUser(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"token", "-user", "nope"}, &stdout, &stderr))
}

func TestHashKey(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"hash-key", "-key", "s3cret", "-cost", "4"}, &stdout, &stderr)
	require.Equal(t, 0, code)

	hash := strings.TrimSpace(stdout.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"frobnicate"}, &stdout, &stderr))
	assert.Equal(t, 2, run(nil, &stdout, &stderr))
}
