package recommendation

import (
	json "github.com/goccy/go-json"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/user"
)

const (
	defaultAge           = 30
	defaultBMI           = 22.0
	defaultGlycemicIndex = 50.0
)

// featureVector is the model input recorded with each recommendation
type featureVector struct {
	UserAge      int     `json:"user_age"`
	UserBMI      float64 `json:"user_bmi"`
	HasDiabetes  int     `json:"has_diabetes"`
	FoodCalories float64 `json:"food_calories"`
	FoodProtein  float64 `json:"food_protein"`
	FoodCarbs    float64 `json:"food_carbs"`
	FoodFiber    float64 `json:"food_fiber"`
	FoodGI       float64 `json:"food_gi"`
	FoodPrice    float64 `json:"food_price"`
}

func extractFeatures(profile user.Profile, item food.Item) featureVector {
	v := featureVector{
		UserAge:      defaultAge,
		UserBMI:      defaultBMI,
		FoodCalories: valueOr(item.Nutrients.Calories, 0),
		FoodProtein:  valueOr(item.Nutrients.Protein, 0),
		FoodCarbs:    valueOr(item.Nutrients.Carbohydrates, 0),
		FoodFiber:    valueOr(item.Nutrients.Fiber, 0),
		FoodGI:       valueOr(item.Nutrients.GlycemicIndex, defaultGlycemicIndex),
		FoodPrice:    valueOr(item.Price, 0),
	}
	if profile.Age != nil {
		v.UserAge = *profile.Age
	}
	if bmi, ok := profile.BMI(); ok {
		v.UserBMI = bmi
	}
	if profile.HasDiabetes {
		v.HasDiabetes = 1
	}
	return v
}

func (v featureVector) encode() string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
