// Package errors provides structured error handling for the application.
// Every error that crosses the HTTP boundary is an *AppError carrying a
// stable code that maps onto an HTTP status.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Nutrition domain
	CodeFoodNotFound            ErrorCode = "FOOD_NOT_FOUND"
	CodeUserNotFound            ErrorCode = "USER_NOT_FOUND"
	CodeRecommendationNotFound  ErrorCode = "RECOMMENDATION_NOT_FOUND"
	CodeOfflineDataUnavailable  ErrorCode = "OFFLINE_DATA_UNAVAILABLE"
	CodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
)

var statusByCode = map[ErrorCode]int{
	CodeBadRequest:              http.StatusBadRequest,
	CodeValidationFailed:        http.StatusBadRequest,
	CodeUnauthorized:            http.StatusUnauthorized,
	CodeInsufficientPermissions: http.StatusForbidden,
	CodeNotFound:                http.StatusNotFound,
	CodeFoodNotFound:            http.StatusNotFound,
	CodeUserNotFound:            http.StatusNotFound,
	CodeRecommendationNotFound:  http.StatusNotFound,
	CodeOfflineDataUnavailable:  http.StatusNotFound,
	CodeTooManyRequests:         http.StatusTooManyRequests,
	CodeExternalServiceError:    http.StatusServiceUnavailable,
}

// AppError is an error with a code, a client-safe message and an optional
// cause that never reaches the response body
type AppError struct {
	Code     ErrorCode
	Message  string
	Details  string
	Metadata map[string]interface{}
	Cause    error
}

func newError(code ErrorCode, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode maps the code onto an HTTP status, 500 when unmapped
func (e *AppError) StatusCode() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithCause records the underlying error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) with(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{}, 1)
	}
	e.Metadata[key] = value
	return e
}

func NewBadRequestError(message string) *AppError {
	return newError(CodeBadRequest, message, "")
}

func NewValidationError(details string) *AppError {
	return newError(CodeValidationFailed, "Validation failed", details)
}

// NewUnauthorizedError defaults the message to "Authentication required"
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return newError(CodeUnauthorized, message, "")
}

// NewNotFoundError names the missing resource, e.g. "Route not found"
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = resource + " not found"
	}
	return newError(CodeNotFound, message, "")
}

func NewTooManyRequestsError() *AppError {
	return newError(CodeTooManyRequests, "Too many requests", "Slow down and retry shortly")
}

func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return newError(CodeInternal, message, "")
}

// NewDatabaseError hides the driver error behind a generic message
func NewDatabaseError(operation string, cause error) *AppError {
	return newError(CodeDatabaseError, "Database operation failed", "Failed to "+operation).WithCause(cause)
}

func NewExternalServiceError(service string, cause error) *AppError {
	return newError(CodeExternalServiceError, "External service error", "Failed to communicate with "+service).
		WithCause(cause)
}

func NewFoodNotFoundError(foodID int64) *AppError {
	return newError(CodeFoodNotFound, "Food not found", fmt.Sprintf("Food item %d does not exist", foodID)).
		with("food_id", foodID)
}

func NewUserNotFoundError(userID string) *AppError {
	return newError(CodeUserNotFound, "User not found", fmt.Sprintf("User with ID %s does not exist", userID)).
		with("user_id", userID)
}

func NewRecommendationNotFoundError(recommendationID string) *AppError {
	return newError(CodeRecommendationNotFound, "Recommendation not found",
		fmt.Sprintf("Recommendation with ID %s does not exist", recommendationID)).
		with("recommendation_id", recommendationID)
}

// NewOfflineDataUnavailableError reports a missing or expired offline snapshot
func NewOfflineDataUnavailableError(userID string) *AppError {
	return newError(CodeOfflineDataUnavailable, "Offline data unavailable", "Enable offline mode to prepare a snapshot").
		with("user_id", userID)
}

func NewInsufficientPermissionsError(action string) *AppError {
	return newError(CodeInsufficientPermissions, "Insufficient permissions",
		fmt.Sprintf("You don't have permission to %s", action)).
		with("action", action)
}

// Wrap returns the AppError in err's chain, or an internal error with
// message whose cause is err
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is reports whether err's chain holds an AppError with code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// ValidationError describes one rejected request field
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors joins field messages with "; "
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// NewValidationErrors lists every field error under validation_errors
func NewValidationErrors(errors []ValidationError) *AppError {
	fields := ValidationErrors(errors)
	return newError(CodeValidationFailed, "Validation failed", fields.Error()).
		with("validation_errors", fields)
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse renders err for a client. The cause is left out.
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Metadata:  err.Metadata,
			RequestID: requestID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}
