package recommendation

import (
	"fmt"
	"strconv"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/domain/user"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
)

var goalSuitabilityKey = map[user.Goal]string{
	user.GoalLoseWeight:    "weight_loss",
	user.GoalGainWeight:    "weight_gain",
	user.GoalHealthyEating: "general_health",
}

func explain(rec *recommendation.Recommendation, item food.Item, profile user.Profile) *inbound.ExplanationDTO {
	out := &inbound.ExplanationDTO{
		FoodName:            item.Name,
		Confidence:          fmt.Sprintf("%.1f%%", rec.Confidence()*100),
		Reasoning:           rec.Reasoning(),
		NutritionalBenefits: []string{},
		Suitability:         map[string]string{},
	}

	n := item.Nutrients
	if n.Protein != nil && *n.Protein > 10 {
		out.NutritionalBenefits = append(out.NutritionalBenefits,
			fmt.Sprintf("High protein (%sg) for muscle health", num(*n.Protein)))
	}
	if n.Fiber != nil && *n.Fiber > 3 {
		out.NutritionalBenefits = append(out.NutritionalBenefits,
			fmt.Sprintf("Rich in fiber (%sg) for digestive health", num(*n.Fiber)))
	}
	if n.VitaminC != nil && *n.VitaminC > 20 {
		out.NutritionalBenefits = append(out.NutritionalBenefits,
			fmt.Sprintf("Excellent source of Vitamin C (%smg)", num(*n.VitaminC)))
	}
	if n.Iron != nil && *n.Iron > 2 {
		out.NutritionalBenefits = append(out.NutritionalBenefits,
			fmt.Sprintf("Good iron source (%smg) for blood health", num(*n.Iron)))
	}

	if profile.HasDiabetes && n.GlycemicIndex != nil {
		switch gi := *n.GlycemicIndex; {
		case gi < 55:
			out.Suitability["diabetes"] = "Excellent - Low GI helps maintain stable blood sugar"
		case gi < 70:
			out.Suitability["diabetes"] = "Good - Moderate GI, consume in moderation"
		default:
			out.Suitability["diabetes"] = "Caution - High GI, monitor blood sugar"
		}
	}

	if profile.PrimaryGoal != "" {
		key, ok := goalSuitabilityKey[profile.PrimaryGoal]
		if !ok {
			key = "general_health"
		}
		out.Suitability[key] = "Well-suited for your goals"
	}

	return out
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
