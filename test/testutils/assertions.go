// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	apperrors "github.com/zoenutrition/zoe/pkg/errors"
)

// HTTPAssertions provides HTTP response assertions
type HTTPAssertions struct {
	t *testing.T
}

// NewHTTPAssertions creates a new HTTP assertions helper
func NewHTTPAssertions(t *testing.T) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// StatusCode asserts the HTTP status code
func (ha *HTTPAssertions) StatusCode(rec *httptest.ResponseRecorder, expectedCode int, msgAndArgs ...interface{}) {
	require.NotNil(ha.t, rec, "Response should not be nil")
	assert.Equal(ha.t, expectedCode, rec.Code, msgAndArgs...)
}

// JSONResponse asserts that the response is JSON and decodes it into target
func (ha *HTTPAssertions) JSONResponse(rec *httptest.ResponseRecorder, target interface{}) {
	require.NotNil(ha.t, rec, "Response should not be nil")

	contentType := rec.Header().Get("Content-Type")
	assert.True(ha.t, strings.Contains(contentType, "application/json"),
		"Response should have JSON content type, got: %s", contentType)

	require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), target), "Response should be valid JSON")
}

// ErrorCode asserts that the response carries an error envelope with code
func (ha *HTTPAssertions) ErrorCode(rec *httptest.ResponseRecorder, expected apperrors.ErrorCode) {
	var body apperrors.ErrorResponse
	ha.JSONResponse(rec, &body)
	assert.Equal(ha.t, expected, body.Error.Code)
	assert.NotEmpty(ha.t, body.Error.Timestamp)
}

// RecommendationAssertions checks recommendation invariants
type RecommendationAssertions struct {
	t *testing.T
}

// NewRecommendationAssertions creates a new recommendation assertions helper
func NewRecommendationAssertions(t *testing.T) *RecommendationAssertions {
	return &RecommendationAssertions{t: t}
}

// Valid asserts identifiers are set and confidence is within [0, 1]
func (ra *RecommendationAssertions) Valid(rec *recommendation.Recommendation) {
	require.NotNil(ra.t, rec, "Recommendation should not be nil")
	assert.NotEqual(ra.t, uuid.Nil, rec.ID())
	assert.NotEqual(ra.t, uuid.Nil, rec.UserID())
	assert.NotZero(ra.t, rec.FoodID())
	assert.GreaterOrEqual(ra.t, rec.Confidence(), 0.0)
	assert.LessOrEqual(ra.t, rec.Confidence(), 1.0)
	assert.NotEmpty(ra.t, rec.Reasoning())
}

// SortedByConfidence asserts non-increasing confidence
func (ra *RecommendationAssertions) SortedByConfidence(recs []*recommendation.Recommendation) {
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(ra.t, recs[i-1].Confidence(), recs[i].Confidence(),
			"recommendation %d out of order", i)
	}
}

// EventAssertions checks what a MockMessageBus received
type EventAssertions struct {
	t *testing.T
}

// NewEventAssertions creates a new event assertions helper
func NewEventAssertions(t *testing.T) *EventAssertions {
	return &EventAssertions{t: t}
}

// EventPublished asserts that an event of the given type was published
func (ea *EventAssertions) EventPublished(bus *MockMessageBus, eventType string) {
	assert.Contains(ea.t, bus.Types(), eventType, "expected %s to be published", eventType)
}

// EventCount asserts the number of published events
func (ea *EventAssertions) EventCount(bus *MockMessageBus, expected int) {
	assert.Len(ea.t, bus.Types(), expected)
}

// NoEventsPublished asserts that nothing was published
func (ea *EventAssertions) NoEventsPublished(bus *MockMessageBus) {
	assert.Empty(ea.t, bus.Types())
}

// DatabaseAssertions provides row-level assertions on a gorm database
type DatabaseAssertions struct {
	t  *testing.T
	db *gorm.DB
}

// NewDatabaseAssertions creates a new database assertions helper
func NewDatabaseAssertions(t *testing.T, db *gorm.DB) *DatabaseAssertions {
	return &DatabaseAssertions{t: t, db: db}
}

// RecordCount asserts the number of rows in table
func (da *DatabaseAssertions) RecordCount(table string, expected int64, msgAndArgs ...interface{}) {
	var count int64
	require.NoError(da.t, da.db.Table(table).Count(&count).Error)
	assert.Equal(da.t, expected, count, msgAndArgs...)
}

// RecordExists asserts that at least one row matches
func (da *DatabaseAssertions) RecordExists(table, where string, args ...interface{}) {
	var count int64
	require.NoError(da.t, da.db.Table(table).Where(where, args...).Count(&count).Error)
	assert.Positive(da.t, count, "expected a row in %s matching %s", table, where)
}
