package scoring

import (
	"strconv"

	"github.com/zoenutrition/zoe/internal/domain/user"
)

// Rule is one row of the scoring table. Weight is added when When holds;
// a non-nil Reason contributes a reasoning fragment.
type Rule struct {
	Name   string
	Weight float64
	When   func(in *Input) bool
	Reason func(in *Input) string
}

func fixed(text string) func(*Input) string {
	return func(*Input) string { return text }
}

func diabetic(in *Input) bool { return in.Profile.HasDiabetes }

func goal(g user.Goal) func(*Input) bool {
	return func(in *Input) bool { return in.Profile.PrimaryGoal == g }
}

func above(v *float64, bound float64) bool { return v != nil && *v > bound }

// below treats a zero reading as unknown. Catalog sources record missing
// facts such as the GI of protein foods as 0.
func below(v *float64, bound float64) bool { return v != nil && *v > 0 && *v < bound }

func formatGI(in *Input) string {
	return strconv.FormatFloat(*in.Item.Nutrients.GlycemicIndex, 'f', -1, 64)
}

const (
	cheapShareOfDailyBudget     = 0.1
	expensiveShareOfDailyBudget = 0.3
	richNutrientThreshold       = 3
)

// DefaultRules returns the scoring table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		// diabetes
		{
			Name:   "diabetes.friendly",
			Weight: 30,
			When:   func(in *Input) bool { return diabetic(in) && in.Item.DiabetesFriendly },
			Reason: fixed("Diabetes-friendly food with low glycemic index"),
		},
		{
			Name:   "diabetes.unfriendly",
			Weight: -40,
			When:   func(in *Input) bool { return diabetic(in) && !in.Item.DiabetesFriendly },
			Reason: fixed("Not recommended for diabetes management"),
		},
		{
			Name:   "diabetes.low_gi",
			Weight: 20,
			When:   func(in *Input) bool { return diabetic(in) && below(in.Item.Nutrients.GlycemicIndex, 55) },
			Reason: func(in *Input) string { return "Low GI (" + formatGI(in) + ") helps maintain stable blood sugar" },
		},
		{
			Name:   "diabetes.high_gi",
			Weight: -30,
			When:   func(in *Input) bool { return diabetic(in) && above(in.Item.Nutrients.GlycemicIndex, 70) },
			Reason: func(in *Input) string { return "High GI (" + formatGI(in) + ") may cause blood sugar spikes" },
		},

		// lose weight
		{
			Name:   "lose_weight.friendly",
			Weight: 25,
			When:   func(in *Input) bool { return goal(user.GoalLoseWeight)(in) && in.Item.WeightLossFriendly },
			Reason: fixed("Supports weight loss goals"),
		},
		{
			Name:   "lose_weight.low_calorie",
			Weight: 15,
			When:   func(in *Input) bool { return goal(user.GoalLoseWeight)(in) && below(in.Item.Nutrients.Calories, 100) },
			Reason: fixed("Low calorie content"),
		},
		{
			Name:   "lose_weight.fiber",
			Weight: 10,
			When:   func(in *Input) bool { return goal(user.GoalLoseWeight)(in) && above(in.Item.Nutrients.Fiber, 3) },
			Reason: fixed("High fiber promotes satiety"),
		},

		// gain weight
		{
			Name:   "gain_weight.friendly",
			Weight: 25,
			When:   func(in *Input) bool { return goal(user.GoalGainWeight)(in) && in.Item.WeightGainFriendly },
			Reason: fixed("Supports healthy weight gain"),
		},
		{
			Name:   "gain_weight.calorie_dense",
			Weight: 15,
			When:   func(in *Input) bool { return goal(user.GoalGainWeight)(in) && above(in.Item.Nutrients.Calories, 200) },
			Reason: fixed("Calorie-dense for weight gain"),
		},
		{
			Name:   "gain_weight.protein",
			Weight: 10,
			When:   func(in *Input) bool { return goal(user.GoalGainWeight)(in) && above(in.Item.Nutrients.Protein, 15) },
			Reason: fixed("High protein for muscle building"),
		},

		// healthy eating
		{
			Name:   "healthy_eating.protein",
			Weight: 10,
			When:   func(in *Input) bool { return goal(user.GoalHealthyEating)(in) && above(in.Item.Nutrients.Protein, 10) },
		},
		{
			Name:   "healthy_eating.fiber",
			Weight: 10,
			When:   func(in *Input) bool { return goal(user.GoalHealthyEating)(in) && above(in.Item.Nutrients.Fiber, 2) },
		},
		{
			Name:   "healthy_eating.vitamin_c",
			Weight: 5,
			When:   func(in *Input) bool { return goal(user.GoalHealthyEating)(in) && above(in.Item.Nutrients.VitaminC, 10) },
		},
		{
			Name:   "healthy_eating.label",
			When:   goal(user.GoalHealthyEating),
			Reason: fixed("Nutritious and balanced"),
		},

		// budget
		{
			Name:   "budget.cheap",
			Weight: 15,
			When: func(in *Input) bool {
				daily, ok := in.Profile.DailyBudget()
				return ok && in.Item.Price != nil && *in.Item.Price <= daily*cheapShareOfDailyBudget
			},
			Reason: fixed("Affordable within your budget"),
		},
		{
			Name:   "budget.expensive",
			Weight: -20,
			When: func(in *Input) bool {
				daily, ok := in.Profile.DailyBudget()
				return ok && in.Item.Price != nil && *in.Item.Price > daily*expensiveShareOfDailyBudget
			},
			Reason: fixed("May exceed budget constraints"),
		},

		// nutrient completeness
		{Name: "nutrients.protein", Weight: 5, When: func(in *Input) bool { return above(in.Item.Nutrients.Protein, 0) }},
		{Name: "nutrients.fiber", Weight: 5, When: func(in *Input) bool { return above(in.Item.Nutrients.Fiber, 0) }},
		{Name: "nutrients.vitamin_c", Weight: 5, When: func(in *Input) bool { return above(in.Item.Nutrients.VitaminC, 0) }},
		{Name: "nutrients.iron", Weight: 5, When: func(in *Input) bool { return above(in.Item.Nutrients.Iron, 0) }},
		{
			Name:   "nutrients.rich",
			When:   func(in *Input) bool { return presentNutrients(in) >= richNutrientThreshold },
			Reason: fixed("Rich in essential nutrients"),
		},

		// history
		{
			Name:   "history.recent",
			Weight: 5,
			When:   func(in *Input) bool { return in.Recent.Contains(in.Item.ID) },
			Reason: fixed("Based on your eating history"),
		},
	}
}

func presentNutrients(in *Input) int {
	n := in.Item.Nutrients
	count := 0
	for _, v := range []*float64{n.Protein, n.Fiber, n.VitaminC, n.Iron} {
		if above(v, 0) {
			count++
		}
	}
	return count
}
