package inbound

import (
	"time"

	"github.com/google/uuid"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/domain/user"
)

// FoodDTO is the public representation of a catalog item
type FoodDTO struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	LocalName          string     `json:"local_name,omitempty"`
	Description        string     `json:"description,omitempty"`
	Category           string     `json:"category"`
	Calories           *float64   `json:"calories,omitempty"`
	Protein            *float64   `json:"protein,omitempty"`
	Carbohydrates      *float64   `json:"carbohydrates,omitempty"`
	Fiber              *float64   `json:"fiber,omitempty"`
	Fat                *float64   `json:"fat,omitempty"`
	Sugar              *float64   `json:"sugar,omitempty"`
	GlycemicIndex      *float64   `json:"glycemic_index,omitempty"`
	VitaminC           *float64   `json:"vitamin_c,omitempty"`
	Iron               *float64   `json:"iron,omitempty"`
	CurrentPrice       *float64   `json:"current_price,omitempty"`
	PriceUnit          string     `json:"price_unit,omitempty"`
	PriceLastUpdated   *time.Time `json:"price_last_updated,omitempty"`
	IsAffordable       bool       `json:"is_affordable"`
	DiabetesFriendly   bool       `json:"diabetes_friendly"`
	WeightLossFriendly bool       `json:"weight_loss_friendly"`
	WeightGainFriendly bool       `json:"weight_gain_friendly"`
}

// NewFoodDTO converts a catalog item
func NewFoodDTO(item food.Item) FoodDTO {
	n := item.Nutrients
	return FoodDTO{
		ID:                 item.ID,
		Name:               item.Name,
		LocalName:          item.LocalName,
		Description:        item.Description,
		Category:           string(item.Category),
		Calories:           n.Calories,
		Protein:            n.Protein,
		Carbohydrates:      n.Carbohydrates,
		Fiber:              n.Fiber,
		Fat:                n.Fat,
		Sugar:              n.Sugar,
		GlycemicIndex:      n.GlycemicIndex,
		VitaminC:           n.VitaminC,
		Iron:               n.Iron,
		CurrentPrice:       item.Price,
		PriceUnit:          string(item.PriceUnit),
		PriceLastUpdated:   item.PriceUpdatedAt,
		IsAffordable:       item.Affordable,
		DiabetesFriendly:   item.DiabetesFriendly,
		WeightLossFriendly: item.WeightLossFriendly,
		WeightGainFriendly: item.WeightGainFriendly,
	}
}

// NewFoodDTOs converts a list of catalog items, keeping order
func NewFoodDTOs(items []food.Item) []FoodDTO {
	out := make([]FoodDTO, 0, len(items))
	for _, item := range items {
		out = append(out, NewFoodDTO(item))
	}
	return out
}

// FoodSuggestion is the autocomplete projection of an item
type FoodSuggestion struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	LocalName string `json:"local_name,omitempty"`
	Category  string `json:"category"`
}

// RecommendationDTO is the public representation of a recommendation
type RecommendationDTO struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	FoodID         int64     `json:"food_item_id"`
	Food           *FoodDTO  `json:"food_item,omitempty"`
	MealSuggestion string    `json:"meal_suggestion"`
	Type           string    `json:"recommendation_type"`
	Confidence     float64   `json:"confidence_score"`
	Reasoning      string    `json:"reasoning"`
	ServingSize    float64   `json:"serving_size"`
	EstimatedCost  float64   `json:"estimated_cost"`
	ModelVersion   string    `json:"model_version"`
	Accepted       *bool     `json:"is_accepted"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewRecommendationDTO converts a recommendation; item may be nil
func NewRecommendationDTO(rec *recommendation.Recommendation, item *food.Item) RecommendationDTO {
	dto := RecommendationDTO{
		ID:             rec.ID(),
		UserID:         rec.UserID(),
		FoodID:         rec.FoodID(),
		MealSuggestion: string(rec.Meal()),
		Type:           rec.Type(),
		Confidence:     rec.Confidence(),
		Reasoning:      rec.Reasoning(),
		ServingSize:    rec.ServingSize(),
		EstimatedCost:  rec.EstimatedCost(),
		ModelVersion:   rec.ModelVersion(),
		CreatedAt:      rec.CreatedAt(),
	}
	switch rec.Acceptance() {
	case recommendation.AcceptanceAccepted:
		accepted := true
		dto.Accepted = &accepted
	case recommendation.AcceptanceRejected:
		accepted := false
		dto.Accepted = &accepted
	}
	if item != nil {
		f := NewFoodDTO(*item)
		dto.Food = &f
	}
	return dto
}

// ProfileDTO is the public representation of a user profile
type ProfileDTO struct {
	ID            uuid.UUID  `json:"id"`
	FirstName     string     `json:"first_name"`
	HasDiabetes   bool       `json:"has_diabetes"`
	DiabetesType  string     `json:"diabetes_type,omitempty"`
	PrimaryGoal   string     `json:"primary_goal"`
	MonthlyBudget *float64   `json:"monthly_budget,omitempty"`
	Age           *int       `json:"age,omitempty"`
	OfflineMode   bool       `json:"offline_mode_enabled"`
	LastSync      *time.Time `json:"last_sync,omitempty"`
}

// NewProfileDTO converts a profile
func NewProfileDTO(p user.Profile) ProfileDTO {
	return ProfileDTO{
		ID:            p.ID,
		FirstName:     p.FirstName,
		HasDiabetes:   p.HasDiabetes,
		DiabetesType:  string(p.DiabetesType),
		PrimaryGoal:   string(p.PrimaryGoal),
		MonthlyBudget: p.MonthlyBudget,
		Age:           p.Age,
		OfflineMode:   p.OfflineMode,
		LastSync:      p.LastSync,
	}
}
