package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoenutrition/zoe/internal/domain/chat"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/test/testutils"
)

func TestIntentClassifier_Classify(t *testing.T) {
	classifier := NewIntentClassifier()

	tests := []struct {
		name    string
		message string
		want    chat.Intent
	}{
		{"greeting", "Hello there", chat.IntentGreeting},
		{"recommendation phrase", "What should I eat for breakfast?", chat.IntentFoodRecommendation},
		{"most hits wins", "How many calories should I cut to lose weight", chat.IntentWeightManagement},
		{"diabetes", "Is this good for my blood sugar and insulin?", chat.IntentDiabetesAdvice},
		{"budget", "Show me affordable options under my budget", chat.IntentBudget},
		{"recipe", "Give me a recipe", chat.IntentRecipe},
		{"goodbye", "Thanks, bye!", chat.IntentGoodbye},
		{"case insensitive", "NUTRITION please", chat.IntentNutritionInfo},
		{"no keywords", "qwerty", chat.IntentGeneral},
		{"empty", "", chat.IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.message))
		})
	}
}

func TestIntentClassifier_TiesGoToFirstDeclared(t *testing.T) {
	classifier := NewIntentClassifier()

	// "calories" is a keyword of both nutrition_info and weight_management
	assert.Equal(t, chat.IntentNutritionInfo, classifier.Classify("calories"))
	// one hit each for food_recommendation and budget
	assert.Equal(t, chat.IntentFoodRecommendation, classifier.Classify("cheap food"))

	for i := 0; i < 20; i++ {
		assert.Equal(t, chat.IntentNutritionInfo, classifier.Classify("calories"))
	}
}

func TestExtractEntities(t *testing.T) {
	items := testutils.SampleFoods()

	t.Run("LocalNameMatchesCatalogFood", func(t *testing.T) {
		entities := ExtractEntities("How much protein is in Ebijanjaalo? 2.5 cups for lunch", items)

		require.NotNil(t, entities.Food)
		assert.Equal(t, "Beans", *entities.Food)
		require.NotNil(t, entities.FoodID)
		assert.Equal(t, int64(3), *entities.FoodID)
		assert.Equal(t, []float64{2.5}, entities.Numbers)
		require.NotNil(t, entities.MealType)
		assert.Equal(t, recommendation.MealLunch, *entities.MealType)
	})

	t.Run("CatalogOrderAndMealOrderWin", func(t *testing.T) {
		entities := ExtractEntities("apple or posho for dinner or breakfast, 100g and 3.", items)

		require.NotNil(t, entities.Food)
		assert.Equal(t, "Apple", *entities.Food)
		assert.Equal(t, []float64{100, 3}, entities.Numbers)
		require.NotNil(t, entities.MealType)
		assert.Equal(t, recommendation.MealBreakfast, *entities.MealType)
	})

	t.Run("NothingFound", func(t *testing.T) {
		entities := ExtractEntities("tell me something", items)

		assert.Nil(t, entities.Food)
		assert.Nil(t, entities.FoodID)
		assert.Nil(t, entities.MealType)
		assert.NotNil(t, entities.Numbers)
		assert.Empty(t, entities.Numbers)
	})

	t.Run("NoCatalog", func(t *testing.T) {
		entities := ExtractEntities("apple", nil)
		assert.Nil(t, entities.Food)
	})
}

func TestUserLimiter(t *testing.T) {
	limiter := NewUserLimiter(60, 2)
	alice, bob := testutils.NewProfileBuilder().Build().ID, testutils.NewProfileBuilder().Build().ID

	assert.True(t, limiter.Allow(alice))
	assert.True(t, limiter.Allow(alice))
	assert.False(t, limiter.Allow(alice), "burst exhausted")
	assert.True(t, limiter.Allow(bob), "buckets are per user")

	unlimited := NewUserLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, unlimited.Allow(alice))
	}
}
