package sqlite

import (
	"time"

	"github.com/zoenutrition/zoe/internal/domain/food"
)

// na marks a fact the source tables do not give
const na = -1

type seedFood struct {
	name, local, description string
	category                 food.Category
	calories, protein, carbs float64
	fiber, fat, sugar, gi    float64
	vitaminC, iron           float64
	price                    float64
	unit                     food.PriceUnit
	diabetes, loss, gain     bool
}

var staples = []seedFood{
	{"Matooke", "Matooke", "Steamed green cooking bananas", food.CategoryGrains, 122, 1.3, 32, 2.3, 0.4, 15, 55, 18, 0.6, 2500, food.PriceUnitKilogram, false, false, true},
	{"Posho", "Kawunga", "Maize flour porridge", food.CategoryGrains, 370, 9.4, 74, 7.3, 4.7, 0.6, 85, na, 2.7, 2800, food.PriceUnitKilogram, false, false, true},
	{"Millet", "Bulo", "Finger millet flour", food.CategoryGrains, 336, 7.3, 72, 11.5, 1.3, 0.5, 54, na, 3.9, 4000, food.PriceUnitKilogram, true, true, false},
	{"Sweet Potato", "Lumonde", "Orange fleshed sweet potato", food.CategoryGrains, 86, 1.6, 20, 3, 0.1, 4.2, 44, 2.4, 0.6, 1500, food.PriceUnitKilogram, true, true, false},
	{"Cassava", "Muwogo", "Boiled cassava root", food.CategoryGrains, 160, 1.4, 38, 1.8, 0.3, 1.7, 46, 20.6, 0.3, 1200, food.PriceUnitKilogram, false, false, true},
	{"Beans", "Ebijanjaalo", "Dried red kidney beans", food.CategoryProteins, 333, 23.6, 60, 24.9, 0.8, 2.2, 29, 4.5, 8.2, 4500, food.PriceUnitKilogram, true, true, true},
	{"Groundnuts", "Binyeebwa", "Raw groundnuts", food.CategoryProteins, 567, 25.8, 16, 8.5, 49, 4, 14, na, 4.6, 7000, food.PriceUnitKilogram, true, false, true},
	{"Silverfish", "Mukene", "Sun dried silver cyprinid", food.CategoryProteins, 320, 60, 0, 0, 8, 0, na, na, 12, 8000, food.PriceUnitKilogram, true, true, true},
	{"Eggs", "Amagi", "Free range chicken eggs", food.CategoryProteins, 155, 13, 1.1, 0, 11, 1.1, na, na, 1.8, 500, food.PriceUnitPiece, true, true, true},
	{"Sukuma Wiki", "Sukuma", "Collard greens", food.CategoryVegetables, 32, 3, 5.4, 4, 0.6, 0.5, 15, 35, 0.5, 1000, food.PriceUnitKilogram, true, true, false},
	{"Dodo", "Doodo", "Amaranth leaves", food.CategoryVegetables, 23, 2.5, 4, 2.2, 0.3, 0.3, 15, 43, 2.3, 800, food.PriceUnitKilogram, true, true, false},
	{"Nakati", "Nakati", "Bitter berry leaves", food.CategoryVegetables, 35, 4.1, 6, 3.5, 0.5, 0.4, 15, 40, 3.1, 1500, food.PriceUnitKilogram, true, true, false},
	{"Avocado", "Ovakedo", "Ripe avocado", food.CategoryFruits, 160, 2, 8.5, 6.7, 14.7, 0.7, 15, 10, 0.6, 1000, food.PriceUnitPiece, true, false, true},
	{"Pawpaw", "Papaali", "Ripe papaya", food.CategoryFruits, 43, 0.5, 11, 1.7, 0.3, 7.8, 60, 60.9, 0.3, 3000, food.PriceUnitPiece, true, true, false},
	{"Jackfruit", "Fene", "Ripe jackfruit pods", food.CategoryFruits, 95, 1.7, 23, 1.5, 0.6, 19, 75, 13.7, 0.2, 2000, food.PriceUnitKilogram, false, false, true},
	{"Sweet Banana", "Ndizi", "Ripe dessert bananas", food.CategoryFruits, 89, 1.1, 23, 2.6, 0.3, 12, 51, 8.7, 0.3, 2000, food.PriceUnitKilogram, false, false, true},
	{"Fresh Milk", "Amata", "Whole cow milk", food.CategoryDairy, 61, 3.2, 4.8, 0, 3.3, 5, 31, na, na, 1800, food.PriceUnitKilogram, true, false, true},
}

func fact(v float64) *float64 {
	if v == na {
		return nil
	}
	return food.Value(v)
}

// SeedFoods returns the seed catalog priced at now
func SeedFoods(now time.Time) []food.Item {
	items := make([]food.Item, 0, len(staples))
	for _, s := range staples {
		items = append(items, food.Item{
			Name:        s.name,
			LocalName:   s.local,
			Description: s.description,
			Category:    s.category,
			Nutrients: food.Nutrients{
				Calories:      fact(s.calories),
				Protein:       fact(s.protein),
				Carbohydrates: fact(s.carbs),
				Fiber:         fact(s.fiber),
				Fat:           fact(s.fat),
				Sugar:         fact(s.sugar),
				GlycemicIndex: fact(s.gi),
				VitaminC:      fact(s.vitaminC),
				Iron:          fact(s.iron),
			},
			Price:              fact(s.price),
			PriceUnit:          s.unit,
			PriceUpdatedAt:     &now,
			Affordable:         true,
			DiabetesFriendly:   s.diabetes,
			WeightLossFriendly: s.loss,
			WeightGainFriendly: s.gain,
		})
	}
	return items
}
