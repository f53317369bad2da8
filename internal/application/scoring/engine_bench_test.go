package scoring

import (
	"testing"

	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/domain/user"
	"github.com/zoenutrition/zoe/test/testutils"
)

func benchmarkRank(b *testing.B, size int) {
	items := testutils.NewFoodFactory(7).Items(size)
	profile := testutils.NewProfileBuilder().
		WithDiabetes(user.DiabetesType2).
		WithGoal(user.GoalLoseWeight).
		WithMonthlyBudget(200000).
		Build()
	recent := NewRecentSet([]user.Consumption{{FoodID: items[0].ID}, {FoodID: items[size/2].ID}})
	engine := NewEngine(nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Rank(profile, items, recommendation.MealLunch, recent)
	}
}

func BenchmarkRank_100(b *testing.B)   { benchmarkRank(b, 100) }
func BenchmarkRank_1000(b *testing.B)  { benchmarkRank(b, 1000) }
func BenchmarkRank_10000(b *testing.B) { benchmarkRank(b, 10000) }
