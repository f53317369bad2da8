package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewBadRequestError("bad"), http.StatusBadRequest},
		{NewValidationError("limit"), http.StatusBadRequest},
		{NewUnauthorizedError(""), http.StatusUnauthorized},
		{NewInsufficientPermissionsError("accept"), http.StatusForbidden},
		{NewNotFoundError("Route"), http.StatusNotFound},
		{NewFoodNotFoundError(7), http.StatusNotFound},
		{NewUserNotFoundError("u1"), http.StatusNotFound},
		{NewRecommendationNotFoundError("r1"), http.StatusNotFound},
		{NewOfflineDataUnavailableError("u1"), http.StatusNotFound},
		{NewTooManyRequestsError(), http.StatusTooManyRequests},
		{NewExternalServiceError("price source", nil), http.StatusServiceUnavailable},
		{NewDatabaseError("save", nil), http.StatusInternalServerError},
		{NewInternalError(""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestWrapAndCauseChain(t *testing.T) {
	sentinel := stderrors.New("no rows")
	dbErr := NewDatabaseError("load profile", sentinel)

	assert.ErrorIs(t, dbErr, sentinel)
	assert.Equal(t, "DATABASE_ERROR: Database operation failed (Failed to load profile)", dbErr.Error())

	wrapped := fmt.Errorf("generate: %w", dbErr)
	assert.Same(t, dbErr, Wrap(wrapped, "ignored"))
	assert.True(t, Is(wrapped, CodeDatabaseError))
	assert.False(t, Is(wrapped, CodeNotFound))

	plain := Wrap(sentinel, "Lookup failed")
	assert.Equal(t, CodeInternal, plain.Code)
	assert.Equal(t, "Lookup failed", plain.Message)
	assert.ErrorIs(t, plain, sentinel)

	assert.Nil(t, Wrap(nil, "unused"))
	assert.False(t, Is(sentinel, CodeInternal))
}

func TestToErrorResponse(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "meal", Tag: "meal", Message: "meal must be one of breakfast, lunch, dinner, snack, all"},
		{Field: "limit", Tag: "max", Message: "limit must be at most 50"},
	})

	response := ToErrorResponse(err, "req-1")
	assert.Equal(t, CodeValidationFailed, response.Error.Code)
	assert.Equal(t, "req-1", response.Error.RequestID)
	assert.Equal(t,
		"meal must be one of breakfast, lunch, dinner, snack, all; limit must be at most 50",
		response.Error.Details)
	require.Contains(t, response.Error.Metadata, "validation_errors")
	assert.Len(t, response.Error.Metadata["validation_errors"], 2)
	assert.NotEmpty(t, response.Error.Timestamp)

	internal := ToErrorResponse(NewInternalError("").WithCause(stderrors.New("panic: secret")), "")
	assert.NotContains(t, fmt.Sprintf("%+v", internal), "secret")
}

func TestValidationErrors_Empty(t *testing.T) {
	assert.Equal(t, "validation failed", ValidationErrors(nil).Error())
}
