package food

import "time"

// PricePoint is one observed market price for an item
type PricePoint struct {
	FoodID     int64
	Price      float64
	Location   string
	Source     string
	RecordedAt time.Time
}

// PriceQuote is what a price source returns for an item
type PriceQuote struct {
	Price    float64
	Location string
	Source   string
}

// Portion is a quantity of one item within a meal
type Portion struct {
	FoodID int64
	Grams  float64
}
