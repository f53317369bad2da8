package inbound

import (
	"context"

	"github.com/zoenutrition/zoe/internal/domain/food"
)

// SearchService defines catalog search and browsing. Failures behind the
// service degrade to empty results.
type SearchService interface {
	Search(ctx context.Context, query SearchQuery) []FoodDTO
	Autocomplete(ctx context.Context, prefix string, limit int) []FoodSuggestion
	SearchByNutrition(ctx context.Context, query NutritionQuery) []FoodDTO
	ListFoods(ctx context.Context, filter food.Filter, limit int) []FoodDTO
	GetFood(ctx context.Context, id int64) (*FoodDTO, error)
}

// SearchQuery is a free-text search with structural filters
type SearchQuery struct {
	Text    string
	Filters SearchFilters
	Limit   int
}

// SearchFilters are the optional structural bounds of a search
type SearchFilters struct {
	Category         *food.Category
	MaxPrice         *float64
	DiabetesFriendly *bool
	MinCalories      *float64
	MaxCalories      *float64
}

// NutritionQuery selects items by nutrient ranges
type NutritionQuery struct {
	MinProtein       *float64
	MaxCarbohydrates *float64
	MinFiber         *float64
	MaxGlycemicIndex *float64
	MaxCalories      *float64
	Limit            int
}
