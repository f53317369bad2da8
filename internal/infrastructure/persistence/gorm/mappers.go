package gorm

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/zoenutrition/zoe/internal/domain/chat"
	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/domain/user"
)

// FoodToModel converts a catalog item to its model
func FoodToModel(item food.Item) *FoodItemModel {
	n := item.Nutrients
	return &FoodItemModel{
		ID:                 item.ID,
		Name:               item.Name,
		LocalName:          item.LocalName,
		NameKey:            strings.ToLower(item.Name),
		LocalNameKey:       strings.ToLower(item.LocalName),
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

// ModelToFood converts a model to a catalog item
func ModelToFood(m *FoodItemModel) food.Item {
	return food.Item{
		ID:          m.ID,
		Name:        m.Name,
		LocalName:   m.LocalName,
		Description: m.Description,
		Category:    food.Category(m.Category),
		Nutrients: food.Nutrients{
			Calories:      m.Calories,
			Protein:       m.Protein,
			Carbohydrates: m.Carbohydrates,
			Fiber:         m.Fiber,
			Fat:           m.Fat,
			Sugar:         m.Sugar,
			GlycemicIndex: m.GlycemicIndex,
			VitaminC:      m.VitaminC,
			Iron:          m.Iron,
		},
		Price:              m.CurrentPrice,
		PriceUnit:          food.PriceUnit(m.PriceUnit),
		PriceUpdatedAt:     m.PriceLastUpdated,
		Affordable:         m.IsAffordable,
		DiabetesFriendly:   m.DiabetesFriendly,
		WeightLossFriendly: m.WeightLossFriendly,
		WeightGainFriendly: m.WeightGainFriendly,
	}
}

// ProfileToModel converts a profile to its model
func ProfileToModel(p *user.Profile) *UserProfileModel {
	return &UserProfileModel{
		ID:                 p.ID,
		FirstName:          p.FirstName,
		HasDiabetes:        p.HasDiabetes,
		DiabetesType:       string(p.DiabetesType),
		PrimaryGoal:        string(p.PrimaryGoal),
		MonthlyBudget:      p.MonthlyBudget,
		Age:                p.Age,
		HeightCm:           p.HeightCm,
		WeightKg:           p.WeightKg,
		OfflineModeEnabled: p.OfflineMode,
		LastSync:           p.LastSync,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ModelToProfile converts a model to a profile
func ModelToProfile(m *UserProfileModel) *user.Profile {
	return &user.Profile{
		ID:            m.ID,
		FirstName:     m.FirstName,
		HasDiabetes:   m.HasDiabetes,
		DiabetesType:  user.DiabetesType(m.DiabetesType),
		PrimaryGoal:   user.ParseGoal(m.PrimaryGoal),
		MonthlyBudget: m.MonthlyBudget,
		Age:           m.Age,
		HeightCm:      m.HeightCm,
		WeightKg:      m.WeightKg,
		OfflineMode:   m.OfflineModeEnabled,
		LastSync:      m.LastSync,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// RecommendationToModel converts a recommendation to its model
func RecommendationToModel(r *recommendation.Recommendation) *RecommendationModel {
	s := r.Snapshot()
	return &RecommendationModel{
		ID:                 s.ID,
		UserID:             s.UserID,
		FoodItemID:         s.FoodID,
		MealSuggestion:     string(s.Meal),
		RecommendationType: s.Type,
		ConfidenceScore:    s.Confidence,
		Reasoning:          s.Reasoning,
		ServingSize:        s.ServingSize,
		EstimatedCost:      s.EstimatedCost,
		ModelVersion:       s.ModelVersion,
		FeaturesUsed:       s.FeaturesUsed,
		IsAccepted:         acceptanceToColumn(s.Acceptance),
		CreatedAt:          s.CreatedAt,
	}
}

// ModelToRecommendation converts a model to a recommendation
func ModelToRecommendation(m *RecommendationModel) *recommendation.Recommendation {
	return recommendation.Restore(recommendation.Snapshot{
		ID:            m.ID,
		UserID:        m.UserID,
		FoodID:        m.FoodItemID,
		Meal:          recommendation.MealType(m.MealSuggestion),
		Type:          m.RecommendationType,
		Confidence:    m.ConfidenceScore,
		Reasoning:     m.Reasoning,
		ServingSize:   m.ServingSize,
		EstimatedCost: m.EstimatedCost,
		ModelVersion:  m.ModelVersion,
		FeaturesUsed:  m.FeaturesUsed,
		Acceptance:    acceptanceFromColumn(m.IsAccepted),
		CreatedAt:     m.CreatedAt,
	})
}

func acceptanceToColumn(a recommendation.Acceptance) *bool {
	var v bool
	switch a {
	case recommendation.AcceptanceAccepted:
		v = true
	case recommendation.AcceptanceRejected:
		v = false
	default:
		return nil
	}
	return &v
}

func acceptanceFromColumn(v *bool) recommendation.Acceptance {
	switch {
	case v == nil:
		return recommendation.AcceptanceUnset
	case *v:
		return recommendation.AcceptanceAccepted
	default:
		return recommendation.AcceptanceRejected
	}
}

// ExchangeToModel converts a chat exchange to its model
func ExchangeToModel(e chat.Exchange) (*ChatHistoryModel, error) {
	raw, err := json.Marshal(e.Entities)
	if err != nil {
		return nil, err
	}
	entities := JSONField{}
	if err := json.Unmarshal(raw, &entities); err != nil {
		return nil, err
	}
	return &ChatHistoryModel{
		ID:        e.ID,
		UserID:    e.UserID,
		Message:   e.Message,
		Response:  e.Response,
		Intent:    string(e.Intent),
		Entities:  entities,
		CreatedAt: e.CreatedAt,
	}, nil
}

// ModelToExchange converts a model to a chat exchange
func ModelToExchange(m *ChatHistoryModel) chat.Exchange {
	var entities chat.Entities
	if raw, err := json.Marshal(m.Entities); err == nil {
		_ = json.Unmarshal(raw, &entities)
	}
	return chat.Exchange{
		ID:        m.ID,
		UserID:    m.UserID,
		Message:   m.Message,
		Response:  m.Response,
		Intent:    chat.Intent(m.Intent),
		Entities:  entities,
		CreatedAt: m.CreatedAt,
	}
}
