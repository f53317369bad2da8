package search

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
	"github.com/zoenutrition/zoe/pkg/errors"
)

const (
	DefaultSearchLimit       = 20
	DefaultAutocompleteLimit = 10
	MaxLimit                 = 100

	minAutocompleteRunes = 2
)

// Service implements inbound.SearchService over a food catalog
type Service struct {
	catalog outbound.FoodCatalog
	scorer  RelevanceScorer
	logger  *zap.Logger
}

// NewService creates a new search service
func NewService(catalog outbound.FoodCatalog, logger *zap.Logger) *Service {
	return &Service{
		catalog: catalog,
		logger:  logger.Named("search-service"),
	}
}

var _ inbound.SearchService = (*Service)(nil)

// Search filters the affordable catalog and ranks it against the query text.
// A blank query returns the filtered catalog in catalog order.
func (s *Service) Search(ctx context.Context, query inbound.SearchQuery) []inbound.FoodDTO {
	limit := clampLimit(query.Limit, DefaultSearchLimit)

	filter := food.Filter{
		AffordableOnly:   true,
		MaxPrice:         query.Filters.MaxPrice,
		DiabetesFriendly: query.Filters.DiabetesFriendly,
		MinCalories:      query.Filters.MinCalories,
		MaxCalories:      query.Filters.MaxCalories,
	}
	if query.Filters.Category != nil {
		filter.Categories = []food.Category{*query.Filters.Category}
	}

	items, err := s.catalog.Query(ctx, filter)
	if err != nil {
		s.logger.Error("Catalog query failed", zap.String("query", query.Text), zap.Error(err))
		return []inbound.FoodDTO{}
	}

	return inbound.NewFoodDTOs(s.rank(items, query.Text, limit))
}

func (s *Service) rank(items []food.Item, text string, limit int) []food.Item {
	if strings.TrimSpace(text) == "" {
		return truncate(items, limit)
	}

	q := NewQuery(text)
	type scored struct {
		item  food.Item
		score float64
	}
	matches := make([]scored, 0, len(items))
	for _, item := range items {
		if score := s.scorer.Score(item, q); score > 0 {
			matches = append(matches, scored{item: item, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]food.Item, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.item)
	}
	return truncate(out, limit)
}

// Autocomplete suggests items whose name or local name starts with prefix.
// Prefixes shorter than two characters yield nothing. The prefix is used
// verbatim, surrounding spaces included.
func (s *Service) Autocomplete(ctx context.Context, prefix string, limit int) []inbound.FoodSuggestion {
	if utf8.RuneCountInString(prefix) < minAutocompleteRunes {
		return []inbound.FoodSuggestion{}
	}

	items, err := s.catalog.Autocomplete(ctx, prefix, clampLimit(limit, DefaultAutocompleteLimit))
	if err != nil {
		s.logger.Error("Autocomplete lookup failed", zap.String("prefix", prefix), zap.Error(err))
		return []inbound.FoodSuggestion{}
	}

	suggestions := make([]inbound.FoodSuggestion, 0, len(items))
	for _, item := range items {
		suggestions = append(suggestions, inbound.FoodSuggestion{
			ID:        item.ID,
			Name:      item.Name,
			LocalName: item.LocalName,
			Category:  string(item.Category),
		})
	}
	return suggestions
}

// SearchByNutrition lists affordable items within the nutrient ranges, in catalog order
func (s *Service) SearchByNutrition(ctx context.Context, query inbound.NutritionQuery) []inbound.FoodDTO {
	filter := food.Filter{
		AffordableOnly:   true,
		MinProtein:       query.MinProtein,
		MaxCarbohydrates: query.MaxCarbohydrates,
		MinFiber:         query.MinFiber,
		MaxGlycemicIndex: query.MaxGlycemicIndex,
		MaxCalories:      query.MaxCalories,
	}

	items, err := s.catalog.Query(ctx, filter)
	if err != nil {
		s.logger.Error("Nutrition search failed", zap.Error(err))
		return []inbound.FoodDTO{}
	}
	return inbound.NewFoodDTOs(truncate(items, clampLimit(query.Limit, DefaultSearchLimit)))
}

// ListFoods browses the catalog with an arbitrary filter
func (s *Service) ListFoods(ctx context.Context, filter food.Filter, limit int) []inbound.FoodDTO {
	items, err := s.catalog.Query(ctx, filter)
	if err != nil {
		s.logger.Error("Catalog listing failed", zap.Error(err))
		return []inbound.FoodDTO{}
	}
	return inbound.NewFoodDTOs(truncate(items, clampLimit(limit, MaxLimit)))
}

// GetFood returns a single catalog item
func (s *Service) GetFood(ctx context.Context, id int64) (*inbound.FoodDTO, error) {
	item, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewFoodNotFoundError(id)
		}
		return nil, errors.NewDatabaseError("load food item", err)
	}
	dto := inbound.NewFoodDTO(*item)
	return &dto, nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func truncate(items []food.Item, limit int) []food.Item {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
