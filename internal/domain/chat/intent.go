// Package chat defines the conversational assistant's vocabulary
package chat

import (
	"time"

	"github.com/google/uuid"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
)

// Intent is the classified purpose of a user message
type Intent string

const (
	IntentGreeting           Intent = "greeting"
	IntentFoodRecommendation Intent = "food_recommendation"
	IntentNutritionInfo      Intent = "nutrition_info"
	IntentDiabetesAdvice     Intent = "diabetes_advice"
	IntentWeightManagement   Intent = "weight_management"
	IntentBudget             Intent = "budget"
	IntentRecipe             Intent = "recipe"
	IntentGoodbye            Intent = "goodbye"
	IntentGeneral            Intent = "general"
)

// Entities are the structured values pulled out of a message
type Entities struct {
	Food     *string                  `json:"food,omitempty"`
	FoodID   *int64                   `json:"food_id,omitempty"`
	Numbers  []float64                `json:"numbers"`
	MealType *recommendation.MealType `json:"meal_type,omitempty"`
}

// Exchange is one message and the assistant's reply
type Exchange struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Message   string
	Response  string
	Intent    Intent
	Entities  Entities
	CreatedAt time.Time
}
