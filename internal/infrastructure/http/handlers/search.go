package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/infrastructure/http/render"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
)

const defaultFoodsLimit = 50

// SearchRequest is the body of POST /search. Filters are read leniently:
// a value of the wrong type is skipped instead of failing the request.
type SearchRequest struct {
	Query   string                 `json:"query" validate:"max=200"`
	Filters map[string]interface{} `json:"filters"`
	Limit   int                    `json:"limit" validate:"omitempty,min=1,max=100"`
}

// Search handles GET /api/v1/search
func (h *APIHandlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := inbound.SearchFilters{
		MaxPrice:         queryFloat(r, "max_price"),
		DiabetesFriendly: queryBool(r, "diabetes_friendly"),
		MinCalories:      queryFloat(r, "min_calories"),
		MaxCalories:      queryFloat(r, "max_calories"),
	}
	if c := strings.TrimSpace(q.Get("category")); c != "" {
		category := food.Category(strings.ToLower(c))
		filters.Category = &category
	}

	results := h.services.Search.Search(r.Context(), inbound.SearchQuery{
		Text:    q.Get("q"),
		Filters: filters,
		Limit:   queryInt(r, "limit", 0),
	})
	h.metrics.SearchServed("text", len(results))
	render.JSON(w, http.StatusOK, results)
}

// SearchPost handles POST /api/v1/search
func (h *APIHandlers) SearchPost(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := render.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	results := h.services.Search.Search(r.Context(), inbound.SearchQuery{
		Text:    req.Query,
		Filters: filtersFromMap(req.Filters),
		Limit:   req.Limit,
	})
	h.metrics.SearchServed("text", len(results))
	render.JSON(w, http.StatusOK, results)
}

// Autocomplete handles GET /api/v1/search/autocomplete
func (h *APIHandlers) Autocomplete(w http.ResponseWriter, r *http.Request) {
	suggestions := h.services.Search.Autocomplete(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit", 0))
	h.metrics.SearchServed("autocomplete", len(suggestions))
	render.JSON(w, http.StatusOK, suggestions)
}

// SearchByNutrition handles GET /api/v1/search/nutrition
func (h *APIHandlers) SearchByNutrition(w http.ResponseWriter, r *http.Request) {
	results := h.services.Search.SearchByNutrition(r.Context(), inbound.NutritionQuery{
		MinProtein:       queryFloat(r, "min_protein"),
		MaxCarbohydrates: queryFloat(r, "max_carbs"),
		MinFiber:         queryFloat(r, "min_fiber"),
		MaxGlycemicIndex: queryFloat(r, "max_gi"),
		MaxCalories:      queryFloat(r, "max_calories"),
		Limit:            queryInt(r, "limit", 0),
	})
	h.metrics.SearchServed("nutrition", len(results))
	render.JSON(w, http.StatusOK, results)
}

// ListFoods handles GET /api/v1/foods. Only affordable items are listed
// unless affordable=false.
func (h *APIHandlers) ListFoods(w http.ResponseWriter, r *http.Request) {
	filter := food.Filter{
		MaxPrice:         queryFloat(r, "max_price"),
		DiabetesFriendly: queryBool(r, "diabetes_friendly"),
		AffordableOnly:   true,
	}
	if affordable := queryBool(r, "affordable"); affordable != nil {
		filter.AffordableOnly = *affordable
	}
	if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
		filter.Categories = []food.Category{food.Category(strings.ToLower(c))}
	}

	render.JSON(w, http.StatusOK, h.services.Search.ListFoods(r.Context(), filter, queryInt(r, "limit", defaultFoodsLimit)))
}

// GetFood handles GET /api/v1/foods/{id}
func (h *APIHandlers) GetFood(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(chi.URLParam(r, "id"), "food id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	item, err := h.services.Search.GetFood(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, item)
}

func filtersFromMap(m map[string]interface{}) inbound.SearchFilters {
	var filters inbound.SearchFilters
	if c, ok := m["category"].(string); ok && strings.TrimSpace(c) != "" {
		category := food.Category(strings.ToLower(strings.TrimSpace(c)))
		filters.Category = &category
	}
	filters.MaxPrice = number(m["max_price"])
	filters.MinCalories = number(m["min_calories"])
	filters.MaxCalories = number(m["max_calories"])
	if b, ok := m["diabetes_friendly"].(bool); ok {
		filters.DiabetesFriendly = &b
	}
	return filters
}

// number accepts JSON numbers and numeric strings
func number(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
