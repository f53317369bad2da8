// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/user"
)

// FoodFactory builds random catalog items
type FoodFactory struct {
	faker  *gofakeit.Faker
	nextID int64
}

// NewFoodFactory creates a new food factory with seeded faker
func NewFoodFactory(seed int64) *FoodFactory {
	return &FoodFactory{faker: gofakeit.New(seed), nextID: 1000}
}

var categories = []food.Category{
	food.CategoryGrains, food.CategoryFruits, food.CategoryVegetables,
	food.CategoryProteins, food.CategoryDairy,
}

func (f *FoodFactory) optional(min, max float64) *float64 {
	if f.faker.Number(0, 4) == 0 {
		return nil
	}
	return food.Value(f.faker.Float64Range(min, max))
}

// Item returns a random affordable item with a fresh ID
func (f *FoodFactory) Item() food.Item {
	f.nextID++
	return food.Item{
		ID:          f.nextID,
		Name:        f.faker.Fruit() + " " + f.faker.Word(),
		LocalName:   f.faker.Word(),
		Description: f.faker.Sentence(8),
		Category:    categories[f.faker.Number(0, len(categories)-1)],
		Nutrients: food.Nutrients{
			Calories:      f.optional(10, 600),
			Protein:       f.optional(0, 30),
			Carbohydrates: f.optional(0, 80),
			Fiber:         f.optional(0, 15),
			GlycemicIndex: f.optional(10, 100),
			VitaminC:      f.optional(0, 60),
			Iron:          f.optional(0, 8),
		},
		Price:              food.Value(f.faker.Float64Range(100, 8000)),
		PriceUnit:          food.PriceUnitKilogram,
		Affordable:         true,
		DiabetesFriendly:   f.faker.Bool(),
		WeightLossFriendly: f.faker.Bool(),
		WeightGainFriendly: f.faker.Bool(),
	}
}

// Items returns n random items
func (f *FoodFactory) Items(n int) []food.Item {
	out := make([]food.Item, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.Item())
	}
	return out
}

// ProfileBuilder provides a fluent interface for building test profiles
type ProfileBuilder struct {
	profile user.Profile
}

// NewProfileBuilder creates a profile with neutral defaults
func NewProfileBuilder() *ProfileBuilder {
	faker := gofakeit.New(time.Now().UnixNano())
	now := time.Now()
	return &ProfileBuilder{profile: user.Profile{
		ID:          uuid.New(),
		FirstName:   faker.FirstName(),
		PrimaryGoal: user.GoalOther,
		CreatedAt:   now,
		UpdatedAt:   now,
	}}
}

func (b *ProfileBuilder) WithID(id uuid.UUID) *ProfileBuilder {
	b.profile.ID = id
	return b
}

func (b *ProfileBuilder) WithName(name string) *ProfileBuilder {
	b.profile.FirstName = name
	return b
}

func (b *ProfileBuilder) WithDiabetes(t user.DiabetesType) *ProfileBuilder {
	b.profile.HasDiabetes = true
	b.profile.DiabetesType = t
	return b
}

func (b *ProfileBuilder) WithGoal(g user.Goal) *ProfileBuilder {
	b.profile.PrimaryGoal = g
	return b
}

func (b *ProfileBuilder) WithMonthlyBudget(budget float64) *ProfileBuilder {
	b.profile.MonthlyBudget = &budget
	return b
}

func (b *ProfileBuilder) WithBody(age int, heightCm, weightKg float64) *ProfileBuilder {
	b.profile.Age = &age
	b.profile.HeightCm = &heightCm
	b.profile.WeightKg = &weightKg
	return b
}

// Build returns the profile
func (b *ProfileBuilder) Build() user.Profile {
	return b.profile
}

// SampleFoods is a small fixed catalog in ID order
func SampleFoods() []food.Item {
	return []food.Item{
		{
			ID: 1, Name: "Apple", LocalName: "Apo", Category: food.CategoryFruits,
			Description: "Crisp fruit rich in fiber",
			Nutrients: food.Nutrients{Calories: food.Value(52), Fiber: food.Value(2.4),
				Carbohydrates: food.Value(14), GlycemicIndex: food.Value(36), VitaminC: food.Value(4.6)},
			Price: food.Value(500), PriceUnit: food.PriceUnitPiece,
			Affordable: true, DiabetesFriendly: true, WeightLossFriendly: true,
		},
		{
			ID: 2, Name: "Sweet Banana", LocalName: "Ndizi", Category: food.CategoryFruits,
			Description: "Small sweet bananas, quick energy",
			Nutrients: food.Nutrients{Calories: food.Value(89), Carbohydrates: food.Value(23),
				Fiber: food.Value(2.6), GlycemicIndex: food.Value(51), VitaminC: food.Value(8.7), Protein: food.Value(1.1)},
			Price: food.Value(2000), PriceUnit: food.PriceUnitKilogram, Affordable: true,
		},
		{
			ID: 3, Name: "Beans", LocalName: "Ebijanjaalo", Category: food.CategoryProteins,
			Description: "Dry red beans, a staple protein source",
			Nutrients: food.Nutrients{Calories: food.Value(347), Protein: food.Value(21),
				Carbohydrates: food.Value(63), Fiber: food.Value(16), GlycemicIndex: food.Value(29), Iron: food.Value(5.1)},
			Price: food.Value(4000), PriceUnit: food.PriceUnitKilogram,
			Affordable: true, DiabetesFriendly: true, WeightGainFriendly: true,
		},
		{
			ID: 4, Name: "Matooke", LocalName: "Matooke", Category: food.CategoryGrains,
			Description: "Steamed green cooking banana",
			Nutrients: food.Nutrients{Calories: food.Value(122), Carbohydrates: food.Value(32),
				Fiber: food.Value(2.3), GlycemicIndex: food.Value(65), VitaminC: food.Value(18.4)},
			Price: food.Value(1500), PriceUnit: food.PriceUnitKilogram, Affordable: true,
		},
		{
			ID: 5, Name: "Posho", LocalName: "Kawunga", Category: food.CategoryGrains,
			Description: "Maize flour porridge",
			Nutrients: food.Nutrients{Calories: food.Value(370), Carbohydrates: food.Value(79),
				Protein: food.Value(8), GlycemicIndex: food.Value(85)},
			Price: food.Value(3000), PriceUnit: food.PriceUnitKilogram,
			Affordable: true, WeightGainFriendly: true,
		},
		{
			ID: 6, Name: "Sukuma Wiki", LocalName: "Sukuma", Category: food.CategoryVegetables,
			Description: "Collard greens with iron and vitamin C",
			Nutrients: food.Nutrients{Calories: food.Value(32), Protein: food.Value(3),
				Fiber: food.Value(4), VitaminC: food.Value(35), Iron: food.Value(1.5), GlycemicIndex: food.Value(15)},
			Price: food.Value(1000), PriceUnit: food.PriceUnitKilogram,
			Affordable: true, DiabetesFriendly: true, WeightLossFriendly: true,
		},
		{
			ID: 7, Name: "Imported Salmon", Category: food.CategoryProteins,
			Description: "Fresh salmon fillet",
			Nutrients: food.Nutrients{Calories: food.Value(208), Protein: food.Value(20)},
			Price: food.Value(60000), PriceUnit: food.PriceUnitKilogram, Affordable: false,
		},
	}
}
