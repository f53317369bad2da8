package food

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestItem_CostFor(t *testing.T) {
	tests := []struct {
		name  string
		item  Item
		grams float64
		want  float64
	}{
		{"per kilogram", Item{Price: Value(2000), PriceUnit: PriceUnitKilogram}, 120, 240},
		{"per piece ignores weight", Item{Price: Value(500), PriceUnit: PriceUnitPiece}, 80, 500},
		{"per hundred grams", Item{Price: Value(300), PriceUnit: PriceUnitHundredGrams}, 80, 240},
		{"unknown unit treated as per hundred grams", Item{Price: Value(300), PriceUnit: "bunch"}, 100, 300},
		{"missing price", Item{PriceUnit: PriceUnitKilogram}, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.item.CostFor(tt.grams), 1e-9)
		})
	}
}

func TestItem_Validate(t *testing.T) {
	assert.ErrorIs(t, Item{Name: "  "}.Validate(), ErrNameRequired)
	assert.ErrorIs(t, Item{Name: "Matooke", Price: Value(-1)}.Validate(), ErrNegativePrice)
	assert.NoError(t, Item{Name: "Matooke"}.Validate())
}

func TestItem_PriceIsStale(t *testing.T) {
	cutoff := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	old := cutoff.Add(-time.Hour)
	fresh := cutoff.Add(time.Hour)

	assert.True(t, Item{}.PriceIsStale(cutoff))
	assert.True(t, Item{PriceUpdatedAt: &old}.PriceIsStale(cutoff))
	assert.False(t, Item{PriceUpdatedAt: &fresh}.PriceIsStale(cutoff))
}

func TestFilter_Matches(t *testing.T) {
	yes := true
	beans := Item{
		Name:             "Beans",
		Category:         CategoryProteins,
		Price:            Value(4000),
		Affordable:       true,
		DiabetesFriendly: true,
		Nutrients: Nutrients{
			Calories:      Value(347),
			Protein:       Value(21),
			Carbohydrates: Value(63),
			Fiber:         Value(16),
		},
	}

	assert.True(t, Filter{}.Matches(beans))
	assert.True(t, Filter{Categories: []Category{CategoryGrains, CategoryProteins}}.Matches(beans))
	assert.False(t, Filter{Categories: []Category{CategoryFruits}}.Matches(beans))
	assert.True(t, Filter{DiabetesFriendly: &yes, MaxPrice: Value(4000)}.Matches(beans))
	assert.False(t, Filter{MaxPrice: Value(3999)}.Matches(beans))
	assert.True(t, Filter{MinProtein: Value(20), MinFiber: Value(10), MaxCalories: Value(400)}.Matches(beans))
	assert.False(t, Filter{MaxCarbohydrates: Value(50)}.Matches(beans))

	// unknown glycemic index never satisfies a bound on it
	assert.False(t, Filter{MaxGlycemicIndex: Value(100)}.Matches(beans))

	beans.Affordable = false
	assert.False(t, Filter{AffordableOnly: true}.Matches(beans))
}
