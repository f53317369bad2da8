// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/zoenutrition/zoe/internal/domain/recommendation"
)

// RecommendationService defines the recommendation use cases
type RecommendationService interface {
	// Generate ranks the catalog for the user and stores the top results.
	// Repeated calls reuse existing rows for the same (user, food, meal).
	Generate(ctx context.Context, cmd GenerateRecommendationsCommand) ([]RecommendationDTO, error)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]RecommendationDTO, error)
	Accept(ctx context.Context, recommendationID, userID uuid.UUID) (*RecommendationDTO, error)
	Reject(ctx context.Context, recommendationID, userID uuid.UUID) (*RecommendationDTO, error)
	Explain(ctx context.Context, recommendationID, userID uuid.UUID) (*ExplanationDTO, error)
}

// GenerateRecommendationsCommand contains data for a generation request
type GenerateRecommendationsCommand struct {
	UserID uuid.UUID
	Meal   recommendation.MealType
	Limit  int
}

// ExplanationDTO describes why a food was recommended
type ExplanationDTO struct {
	FoodName            string            `json:"food_name"`
	Confidence          string            `json:"confidence"`
	Reasoning           string            `json:"reasoning"`
	NutritionalBenefits []string          `json:"nutritional_benefits"`
	Suitability         map[string]string `json:"suitability"`
}
