// Package chat implements the keyword-driven nutrition assistant
package chat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zoenutrition/zoe/internal/domain/chat"
	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
)

type intentKeywords struct {
	intent   chat.Intent
	keywords []string
}

// declaration order breaks ties
var defaultIntents = []intentKeywords{
	{chat.IntentGreeting, []string{"hello", "hi", "hey", "greetings"}},
	{chat.IntentFoodRecommendation, []string{"recommend", "suggest", "what should i eat", "food", "meal"}},
	{chat.IntentNutritionInfo, []string{"nutrition", "calories", "protein", "carbs", "vitamin", "nutrient"}},
	{chat.IntentDiabetesAdvice, []string{"diabetes", "blood sugar", "glucose", "insulin", "glycemic"}},
	{chat.IntentWeightManagement, []string{"weight", "lose weight", "gain weight", "diet", "calories"}},
	{chat.IntentBudget, []string{"budget", "affordable", "cheap", "price", "cost"}},
	{chat.IntentRecipe, []string{"recipe", "how to cook", "prepare", "make"}},
	{chat.IntentGoodbye, []string{"bye", "goodbye", "see you", "thanks", "thank you"}},
}

var mealKeywords = []recommendation.MealType{
	recommendation.MealBreakfast,
	recommendation.MealLunch,
	recommendation.MealDinner,
	recommendation.MealSnack,
}

var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// IntentClassifier scores a message against an ordered keyword table. It
// holds no mutable state.
type IntentClassifier struct {
	intents []intentKeywords
}

// NewIntentClassifier creates a classifier over the default keyword table
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{intents: defaultIntents}
}

// Classify returns the intent with the most keyword hits. Each keyword
// counts once when it occurs as a substring of the lowercased message.
// Ties go to the intent declared first; no hits yields IntentGeneral.
func (c *IntentClassifier) Classify(message string) chat.Intent {
	text := strings.ToLower(message)

	best, bestCount := chat.IntentGeneral, 0
	for _, entry := range c.intents {
		count := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = entry.intent, count
		}
	}
	return best
}

// ExtractEntities pulls the first catalog food named in the message, every
// number, and the first meal type mentioned. Items are searched in the
// order given.
func ExtractEntities(message string, items []food.Item) chat.Entities {
	text := strings.ToLower(message)
	entities := chat.Entities{Numbers: []float64{}}

	for _, item := range items {
		if mentions(text, item.Name) || mentions(text, item.LocalName) {
			name, id := item.Name, item.ID
			entities.Food = &name
			entities.FoodID = &id
			break
		}
	}

	for _, raw := range numberPattern.FindAllString(message, -1) {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "."), 64); err == nil {
			entities.Numbers = append(entities.Numbers, v)
		}
	}

	for _, meal := range mealKeywords {
		if strings.Contains(text, string(meal)) {
			m := meal
			entities.MealType = &m
			break
		}
	}

	return entities
}

func mentions(text, name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	return name != "" && strings.Contains(text, name)
}
