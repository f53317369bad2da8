// Package scoring ranks catalog items for a user profile with a fixed rule
// table and an optional model-backed adjustment.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/domain/user"
)

const (
	// BaseScore is the score every item starts from
	BaseScore = 50.0
	// RecentWindow is how many consumption entries count as recent history
	RecentWindow = 10

	defaultReasoning = "Recommended based on your profile"
)

// RecentSet is the set of food IDs in the user's recent consumption
type RecentSet map[int64]struct{}

// NewRecentSet keeps the first RecentWindow entries, which are expected
// newest first.
func NewRecentSet(entries []user.Consumption) RecentSet {
	set := make(RecentSet, RecentWindow)
	for i, entry := range entries {
		if i == RecentWindow {
			break
		}
		set[entry.FoodID] = struct{}{}
	}
	return set
}

// Contains reports whether the food was eaten recently
func (s RecentSet) Contains(foodID int64) bool {
	_, ok := s[foodID]
	return ok
}

// Input is everything a rule may look at
type Input struct {
	Profile *user.Profile
	Item    *food.Item
	Meal    recommendation.MealType
	Recent  RecentSet
}

// Result is a raw score with its reasoning fragments in rule order
type Result struct {
	Score   float64
	Reasons []string
}

// Reasoning joins the fragments into user-facing text
func (r Result) Reasoning() string {
	if len(r.Reasons) == 0 {
		return defaultReasoning
	}
	return strings.Join(r.Reasons, ". ")
}

// Confidence maps the raw score onto [0, 1]
func (r Result) Confidence() float64 {
	return math.Min(1, math.Max(0, r.Score/100))
}

// Candidate is a scored item awaiting materialisation
type Candidate struct {
	Item   food.Item
	Result Result
}

// Engine evaluates the rule table. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	rules    []Rule
	strategy Strategy
}

// NewEngine creates an engine over the default rule table
func NewEngine(strategy Strategy) *Engine {
	if strategy == nil {
		strategy = NopStrategy{}
	}
	return &Engine{rules: DefaultRules(), strategy: strategy}
}

// Strategy returns the active model strategy
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Score evaluates every rule for one item
func (e *Engine) Score(profile user.Profile, item food.Item, meal recommendation.MealType, recent RecentSet) Result {
	in := &Input{Profile: &profile, Item: &item, Meal: meal, Recent: recent}

	result := Result{Score: BaseScore}
	for _, rule := range e.rules {
		if !rule.When(in) {
			continue
		}
		result.Score += rule.Weight
		if rule.Reason != nil {
			result.Reasons = append(result.Reasons, rule.Reason(in))
		}
	}

	if e.strategy.Enabled() {
		delta, reason := e.strategy.Adjust(in)
		result.Score += delta
		if reason != "" {
			result.Reasons = append(result.Reasons, reason)
		}
	}

	result.Score = math.Max(0, result.Score)
	return result
}

// Rank scores items, drops zero scores and orders the rest by score
// descending. Equal scores keep their input order.
func (e *Engine) Rank(profile user.Profile, items []food.Item, meal recommendation.MealType, recent RecentSet) []Candidate {
	candidates := make([]Candidate, 0, len(items))
	for _, item := range items {
		result := e.Score(profile, item, meal, recent)
		if result.Score <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{Item: item, Result: result})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Result.Score > candidates[j].Result.Score
	})
	return candidates
}
