package recommendation

import (
	"time"

	"github.com/google/uuid"
)

// RecommendationCreatedEvent is raised when a new recommendation is stored
type RecommendationCreatedEvent struct {
	RecommendationID uuid.UUID
	UserID           uuid.UUID
	FoodID           int64
	Confidence       float64
	CreatedAt        time.Time
}

func (e RecommendationCreatedEvent) EventName() string {
	return "recommendation.created"
}

func (e RecommendationCreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// RecommendationRespondedEvent is raised when a user accepts or rejects
type RecommendationRespondedEvent struct {
	RecommendationID uuid.UUID
	UserID           uuid.UUID
	Acceptance       Acceptance
	RespondedAt      time.Time
}

func (e RecommendationRespondedEvent) EventName() string {
	if e.Acceptance == AcceptanceAccepted {
		return "recommendation.accepted"
	}
	return "recommendation.rejected"
}

func (e RecommendationRespondedEvent) OccurredAt() time.Time {
	return e.RespondedAt
}
