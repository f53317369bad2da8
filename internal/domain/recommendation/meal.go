package recommendation

import (
	"strings"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/user"
)

// MealType is the meal a recommendation is suggested for
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealAll       MealType = "all"
)

var mealCategories = map[MealType][]food.Category{
	MealBreakfast: {food.CategoryGrains, food.CategoryFruits, food.CategoryProteins},
	MealLunch:     {food.CategoryGrains, food.CategoryVegetables, food.CategoryProteins},
	MealDinner:    {food.CategoryGrains, food.CategoryVegetables, food.CategoryProteins},
	MealSnack:     {food.CategoryFruits, food.CategoryVegetables},
}

// ParseMealType maps free text onto a meal type. Unknown values report false.
func ParseMealType(s string) (MealType, bool) {
	m := MealType(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack, MealAll:
		return m, true
	case "":
		return MealAll, true
	default:
		return MealAll, false
	}
}

// Categories is the category whitelist for the meal. Nil means any category.
func (m MealType) Categories() []food.Category {
	categories, ok := mealCategories[m]
	if !ok {
		return nil
	}
	out := make([]food.Category, len(categories))
	copy(out, categories)
	return out
}

const (
	servingLoseWeight = 80.0
	servingGainWeight = 120.0
	servingDefault    = 100.0
)

// ServingSize returns the suggested portion in grams for a goal
func ServingSize(goal user.Goal) float64 {
	switch goal {
	case user.GoalLoseWeight:
		return servingLoseWeight
	case user.GoalGainWeight:
		return servingGainWeight
	default:
		return servingDefault
	}
}
