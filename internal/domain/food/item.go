package food

import (
	"strings"
	"time"
)

// Category groups catalog items for meal planning
type Category string

const (
	CategoryGrains     Category = "grains"
	CategoryFruits     Category = "fruits"
	CategoryVegetables Category = "vegetables"
	CategoryProteins   Category = "proteins"
	CategoryDairy      Category = "dairy"
	CategoryOther      Category = "other"
)

// PriceUnit is the quantity a catalog price refers to
type PriceUnit string

const (
	PriceUnitKilogram     PriceUnit = "kg"
	PriceUnitPiece        PriceUnit = "piece"
	PriceUnitHundredGrams PriceUnit = "100g"
)

// Nutrients holds per-100g facts. A nil field means the value is unknown.
type Nutrients struct {
	Calories      *float64
	Protein       *float64
	Carbohydrates *float64
	Fiber         *float64
	Fat           *float64
	Sugar         *float64
	GlycemicIndex *float64
	VitaminC      *float64
	Iron          *float64
}

// Item is a catalog entry. Items are read-only values for the duration of
// a scoring or search call.
type Item struct {
	ID          int64
	Name        string
	LocalName   string
	Description string
	Category    Category
	Nutrients   Nutrients

	Price          *float64
	PriceUnit      PriceUnit
	PriceUpdatedAt *time.Time

	Affordable         bool
	DiabetesFriendly   bool
	WeightLossFriendly bool
	WeightGainFriendly bool
}

// Validate validates the item
func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrNameRequired
	}
	if i.Price != nil && *i.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// CostFor estimates the cost of a portion of the given weight in grams.
// Items without a price cost nothing.
func (i Item) CostFor(grams float64) float64 {
	if i.Price == nil {
		return 0
	}
	price := *i.Price
	switch i.PriceUnit {
	case PriceUnitKilogram:
		return price / 1000 * grams
	case PriceUnitPiece:
		return price
	default:
		return price * grams / 100
	}
}

// PriceIsStale reports whether the price was last refreshed before cutoff
func (i Item) PriceIsStale(cutoff time.Time) bool {
	return i.PriceUpdatedAt == nil || i.PriceUpdatedAt.Before(cutoff)
}

// Value returns a pointer to v, for building optional nutrient facts
func Value(v float64) *float64 {
	return &v
}
