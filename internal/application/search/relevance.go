// Package search ranks catalog items against free-text queries
package search

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zoenutrition/zoe/internal/domain/food"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
}

const minTokenRunes = 3

// Tokenize lowercases text and returns its word tokens, dropping stop
// words and tokens shorter than three characters.
func Tokenize(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < minTokenRunes {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

const (
	nameExactWeight       = 100.0
	nameTokenWeight       = 50.0
	localExactWeight      = 80.0
	localTokenWeight      = 40.0
	descriptionWeight     = 30.0
	descriptionTokenScore = 5.0
	categoryWeight        = 20.0
	prefixBonus           = 15.0
)

// RelevanceScorer scores an item against a query. It is stateless.
type RelevanceScorer struct{}

// Query is a prepared search query
type Query struct {
	Lower  string
	Tokens []string
}

// NewQuery prepares raw query text for scoring
func NewQuery(text string) Query {
	return Query{
		Lower:  strings.ToLower(strings.TrimSpace(text)),
		Tokens: Tokenize(text),
	}
}

// Score returns the relevance of item for q; zero means no match
func (RelevanceScorer) Score(item food.Item, q Query) float64 {
	score := 0.0

	name := strings.ToLower(item.Name)
	local := strings.ToLower(item.LocalName)
	description := strings.ToLower(item.Description)
	category := strings.ToLower(string(item.Category))

	switch {
	case strings.Contains(name, q.Lower):
		score += nameExactWeight
	case containsAny(name, q.Tokens):
		score += nameTokenWeight
	}

	if local != "" {
		switch {
		case strings.Contains(local, q.Lower):
			score += localExactWeight
		case containsAny(local, q.Tokens):
			score += localTokenWeight
		}
	}

	if description != "" {
		if strings.Contains(description, q.Lower) {
			score += descriptionWeight
		} else {
			for _, token := range q.Tokens {
				if strings.Contains(description, token) {
					score += descriptionTokenScore
				}
			}
		}
	}

	if category != "" && strings.Contains(category, q.Lower) {
		score += categoryWeight
	}

	if hasAnyPrefix(name, q.Tokens) {
		score += prefixBonus
	}
	if local != "" && hasAnyPrefix(local, q.Tokens) {
		score += prefixBonus
	}

	return score
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.HasPrefix(s, token) {
			return true
		}
	}
	return false
}
