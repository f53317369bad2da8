package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/infrastructure/http/render"
	"github.com/zoenutrition/zoe/pkg/errors"
)

// UpdatePricesRequest is the optional body of POST /prices/update
type UpdatePricesRequest struct {
	Force bool `json:"force"`
}

// MealCostRequest is the body of POST /prices/meal-cost
type MealCostRequest struct {
	Items []MealCostItem `json:"items" validate:"required,min=1,max=50,dive"`
}

// MealCostItem is one portion, quantity in grams
type MealCostItem struct {
	FoodID   int64   `json:"food_id" validate:"required,gt=0"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
}

// UpdatePrices handles POST /api/v1/prices/update
func (h *APIHandlers) UpdatePrices(w http.ResponseWriter, r *http.Request) {
	var req UpdatePricesRequest
	if err := render.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.services.Prices.UpdatePrices(r.Context(), req.Force)
	if result != nil {
		h.metrics.PriceUpdateFinished(result.Updated, result.Skipped, result.Failed)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, result)
}

// PriceTrend handles GET /api/v1/prices/{id}/trend
func (h *APIHandlers) PriceTrend(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(chi.URLParam(r, "id"), "food id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	trend, err := h.services.Prices.Trend(r.Context(), id, queryInt(r, "days", 0))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, trend)
}

// AffordableFoods handles GET /api/v1/prices/affordable
func (h *APIHandlers) AffordableFoods(w http.ResponseWriter, r *http.Request) {
	maxPrice := queryFloat(r, "max_price")
	if maxPrice == nil {
		h.fail(w, r, errors.NewValidationError("max_price is required"))
		return
	}

	foods, err := h.services.Prices.AffordableFoods(r.Context(), *maxPrice, queryInt(r, "limit", 0))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, foods)
}

// EstimateMealCost handles POST /api/v1/prices/meal-cost
func (h *APIHandlers) EstimateMealCost(w http.ResponseWriter, r *http.Request) {
	var req MealCostRequest
	if err := render.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	portions := make([]food.Portion, 0, len(req.Items))
	for _, item := range req.Items {
		portions = append(portions, food.Portion{FoodID: item.FoodID, Grams: item.Quantity})
	}

	cost, err := h.services.Prices.EstimateMealCost(r.Context(), portions)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, cost)
}
