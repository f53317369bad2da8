package inbound

import (
	"context"
	"time"

	"github.com/zoenutrition/zoe/internal/domain/food"
)

// PriceService defines market price maintenance and cost estimates
type PriceService interface {
	// UpdatePrices refreshes stale prices, or all prices when force is set
	UpdatePrices(ctx context.Context, force bool) (*PriceUpdateResult, error)
	Trend(ctx context.Context, foodID int64, days int) ([]PricePointDTO, error)
	AffordableFoods(ctx context.Context, maxPrice float64, limit int) ([]FoodDTO, error)
	EstimateMealCost(ctx context.Context, portions []food.Portion) (*MealCostDTO, error)
}

// PriceUpdateResult summarises an update run
type PriceUpdateResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// PricePointDTO is one entry of a price trend
type PricePointDTO struct {
	Date     time.Time `json:"date"`
	Price    float64   `json:"price"`
	Location string    `json:"location"`
}

// MealCostDTO is the estimated cost of a meal
type MealCostDTO struct {
	TotalCost float64 `json:"total_cost"`
	Currency  string  `json:"currency"`
}
