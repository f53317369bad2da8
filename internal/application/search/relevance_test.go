package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zoenutrition/zoe/internal/domain/food"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Beans and rice", []string{"beans", "rice"}},
		{"the OF a", []string{}},
		{"go to Matooke, quickly!", []string{"matooke", "quickly"}},
		{"ñame dishes", []string{"ñame", "dishes"}},
		{"vitamin_c rich", []string{"vitamin_c", "rich"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.text), tt.text)
	}
}

func TestRelevanceScorer_Score(t *testing.T) {
	scorer := RelevanceScorer{}
	beans := food.Item{
		ID:          3,
		Name:        "Beans",
		LocalName:   "Ebijanjaalo",
		Description: "Dry red beans, a staple protein source",
		Category:    food.CategoryProteins,
	}

	t.Run("exact name with prefix bonus", func(t *testing.T) {
		// name 100, description 30, name prefix 15
		assert.Equal(t, 145.0, scorer.Score(beans, NewQuery("beans")))
	})

	t.Run("category only", func(t *testing.T) {
		// "protein" appears in category and description
		assert.Equal(t, 50.0, scorer.Score(beans, NewQuery("protein")))
	})

	t.Run("description tokens add five each", func(t *testing.T) {
		assert.Equal(t, 10.0, scorer.Score(beans, NewQuery("staple source fried")))
	})

	t.Run("prefix bonus applies once per field", func(t *testing.T) {
		item := food.Item{Name: "Rice", Category: food.CategoryGrains}
		// token "rice" partial 50 + prefix 15; the query string is not a substring
		assert.Equal(t, 65.0, scorer.Score(item, NewQuery("rice rice pilau")))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Zero(t, scorer.Score(beans, NewQuery("mango")))
	})

	t.Run("local name match", func(t *testing.T) {
		item := food.Item{Name: "Cassava", LocalName: "Muwogo", Category: food.CategoryGrains}
		// local exact 80 + local prefix 15
		assert.Equal(t, 95.0, scorer.Score(item, NewQuery("muwogo")))
	})
}

func TestRelevanceScorer_ExactBeatsPartial(t *testing.T) {
	scorer := RelevanceScorer{}
	q := NewQuery("sweet banana")

	exact := scorer.Score(food.Item{Name: "Sweet Banana"}, q)
	partial := scorer.Score(food.Item{Name: "Banana Chips"}, q)

	assert.Greater(t, exact, partial)
	assert.Greater(t, partial, 0.0)
}
