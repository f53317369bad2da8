package scoring

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/domain/user"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
	faker  *gofakeit.Faker
}

func (suite *EngineTestSuite) SetupTest() {
	suite.engine = NewEngine(nil)
	suite.faker = gofakeit.New(42)
}

func (suite *EngineTestSuite) randomOptional(min, max float64) *float64 {
	if suite.faker.Bool() {
		return nil
	}
	return food.Value(suite.faker.Float64Range(min, max))
}

func (suite *EngineTestSuite) randomItem(id int64) food.Item {
	return food.Item{
		ID:       id,
		Name:     suite.faker.Word(),
		Category: food.CategoryGrains,
		Nutrients: food.Nutrients{
			Calories:      suite.randomOptional(0, 600),
			Protein:       suite.randomOptional(0, 40),
			Fiber:         suite.randomOptional(0, 20),
			GlycemicIndex: suite.randomOptional(0, 100),
			VitaminC:      suite.randomOptional(0, 80),
			Iron:          suite.randomOptional(0, 10),
		},
		Price:              suite.randomOptional(50, 20000),
		PriceUnit:          food.PriceUnitKilogram,
		Affordable:         true,
		DiabetesFriendly:   suite.faker.Bool(),
		WeightLossFriendly: suite.faker.Bool(),
		WeightGainFriendly: suite.faker.Bool(),
	}
}

func (suite *EngineTestSuite) randomProfile() user.Profile {
	goals := []user.Goal{user.GoalLoseWeight, user.GoalGainWeight, user.GoalHealthyEating, user.GoalOther}
	return user.Profile{
		ID:            uuid.New(),
		HasDiabetes:   suite.faker.Bool(),
		PrimaryGoal:   goals[suite.faker.Number(0, len(goals)-1)],
		MonthlyBudget: suite.randomOptional(10000, 500000),
	}
}

func (suite *EngineTestSuite) TestScoreProperties() {
	for i := 0; i < 500; i++ {
		profile := suite.randomProfile()
		item := suite.randomItem(int64(i + 1))

		first := suite.engine.Score(profile, item, recommendation.MealAll, nil)
		second := suite.engine.Score(profile, item, recommendation.MealAll, nil)

		suite.GreaterOrEqual(first.Score, 0.0)
		suite.GreaterOrEqual(first.Confidence(), 0.0)
		suite.LessOrEqual(first.Confidence(), 1.0)
		suite.Equal(first, second, "scoring must be deterministic")

		if !profile.HasDiabetes {
			for _, reason := range first.Reasons {
				suite.NotContains(strings.ToLower(reason), "diabetes")
				suite.NotContains(reason, "GI (")
			}
		}
	}
}

func (suite *EngineTestSuite) TestDiabetesRules() {
	profile := user.Profile{HasDiabetes: true, PrimaryGoal: user.GoalOther}

	suite.Run("FriendlyLowGI", func() {
		item := food.Item{ID: 1, DiabetesFriendly: true, Nutrients: food.Nutrients{GlycemicIndex: food.Value(40)}}
		result := suite.engine.Score(profile, item, recommendation.MealAll, nil)

		suite.Equal(100.0, result.Score)
		suite.Equal([]string{
			"Diabetes-friendly food with low glycemic index",
			"Low GI (40) helps maintain stable blood sugar",
		}, result.Reasons)
		suite.Equal(1.0, result.Confidence())
	})

	suite.Run("UnfriendlyHighGIFloorsAtZero", func() {
		item := food.Item{ID: 2, Nutrients: food.Nutrients{GlycemicIndex: food.Value(85.5)}}
		result := suite.engine.Score(profile, item, recommendation.MealAll, nil)

		suite.Equal(0.0, result.Score)
		suite.Equal([]string{
			"Not recommended for diabetes management",
			"High GI (85.5) may cause blood sugar spikes",
		}, result.Reasons)
	})

	suite.Run("MissingGISkipsGIRules", func() {
		item := food.Item{ID: 3, DiabetesFriendly: true}
		result := suite.engine.Score(profile, item, recommendation.MealAll, nil)

		suite.Equal(80.0, result.Score)
		suite.Len(result.Reasons, 1)
	})

	suite.Run("ZeroGICountsAsUnknown", func() {
		item := food.Item{ID: 4, DiabetesFriendly: true, Nutrients: food.Nutrients{GlycemicIndex: food.Value(0)}}
		result := suite.engine.Score(profile, item, recommendation.MealAll, nil)

		suite.Equal(80.0, result.Score)
		suite.Equal([]string{"Diabetes-friendly food with low glycemic index"}, result.Reasons)
	})
}

func (suite *EngineTestSuite) TestZeroCaloriesSkipsLowCalorieRule() {
	profile := user.Profile{PrimaryGoal: user.GoalLoseWeight}
	item := food.Item{ID: 1, Nutrients: food.Nutrients{Calories: food.Value(0)}}

	result := suite.engine.Score(profile, item, recommendation.MealAll, nil)
	suite.Equal(50.0, result.Score)
	suite.NotContains(result.Reasons, "Low calorie content")
}

func (suite *EngineTestSuite) TestGoalRules() {
	suite.Run("LoseWeight", func() {
		profile := user.Profile{PrimaryGoal: user.GoalLoseWeight}
		item := food.Item{ID: 1, WeightLossFriendly: true, Nutrients: food.Nutrients{
			Calories: food.Value(60), Fiber: food.Value(4),
		}}
		result := suite.engine.Score(profile, item, recommendation.MealSnack, nil)

		// 50 + 25 + 15 + 10 + 5 (fiber present)
		suite.Equal(105.0, result.Score)
		suite.Equal([]string{
			"Supports weight loss goals",
			"Low calorie content",
			"High fiber promotes satiety",
		}, result.Reasons)
		suite.Equal(1.0, result.Confidence())
	})

	suite.Run("GainWeight", func() {
		profile := user.Profile{PrimaryGoal: user.GoalGainWeight}
		item := food.Item{ID: 1, WeightGainFriendly: true, Nutrients: food.Nutrients{
			Calories: food.Value(350), Protein: food.Value(20),
		}}
		result := suite.engine.Score(profile, item, recommendation.MealAll, nil)

		suite.Equal(105.0, result.Score)
		suite.Equal("Supports healthy weight gain. Calorie-dense for weight gain. High protein for muscle building",
			result.Reasoning())
	})

	suite.Run("HealthyEatingAlwaysLabelled", func() {
		profile := user.Profile{PrimaryGoal: user.GoalHealthyEating}
		result := suite.engine.Score(profile, food.Item{ID: 1}, recommendation.MealAll, nil)

		suite.Equal(BaseScore, result.Score)
		suite.Equal([]string{"Nutritious and balanced"}, result.Reasons)
	})
}

func (suite *EngineTestSuite) TestBudgetRules() {
	profile := user.Profile{PrimaryGoal: user.GoalOther, MonthlyBudget: food.Value(30000)}

	cheap := suite.engine.Score(profile, food.Item{ID: 1, Price: food.Value(100)}, recommendation.MealAll, nil)
	middle := suite.engine.Score(profile, food.Item{ID: 2, Price: food.Value(200)}, recommendation.MealAll, nil)
	dear := suite.engine.Score(profile, food.Item{ID: 3, Price: food.Value(301)}, recommendation.MealAll, nil)

	suite.Equal(65.0, cheap.Score)
	suite.Equal([]string{"Affordable within your budget"}, cheap.Reasons)
	suite.Equal(50.0, middle.Score)
	suite.Equal(30.0, dear.Score)
	suite.Equal([]string{"May exceed budget constraints"}, dear.Reasons)
	suite.Greater(cheap.Score, middle.Score)
	suite.Greater(middle.Score, dear.Score)

	noBudget := suite.engine.Score(user.Profile{}, food.Item{ID: 1, Price: food.Value(100)}, recommendation.MealAll, nil)
	suite.Equal(BaseScore, noBudget.Score)
	suite.Equal("Recommended based on your profile", noBudget.Reasoning())
}

func (suite *EngineTestSuite) TestCompletenessAndHistory() {
	item := food.Item{ID: 9, Nutrients: food.Nutrients{
		Protein: food.Value(3), Fiber: food.Value(2), VitaminC: food.Value(30), Iron: food.Value(0),
	}}
	recent := NewRecentSet([]user.Consumption{{FoodID: 9}})

	result := suite.engine.Score(user.Profile{}, item, recommendation.MealAll, recent)

	suite.Equal(70.0, result.Score)
	suite.Equal([]string{"Rich in essential nutrients", "Based on your eating history"}, result.Reasons)
}

func (suite *EngineTestSuite) TestRank() {
	profile := user.Profile{HasDiabetes: true}
	items := []food.Item{
		{ID: 1, Name: "plain"},
		{ID: 2, Name: "friendly", DiabetesFriendly: true},
		{ID: 3, Name: "spike", Nutrients: food.Nutrients{GlycemicIndex: food.Value(90)}},
		{ID: 4, Name: "plain too"},
	}

	ranked := suite.engine.Rank(profile, items, recommendation.MealAll, nil)

	require.Len(suite.T(), ranked, 3, "zero scores are dropped")
	suite.Equal(int64(2), ranked[0].Item.ID)
	suite.Equal(int64(1), ranked[1].Item.ID, "ties keep catalog order")
	suite.Equal(int64(4), ranked[2].Item.ID)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func TestNewRecentSet_KeepsOnlyWindow(t *testing.T) {
	entries := make([]user.Consumption, 0, 12)
	for id := int64(1); id <= 12; id++ {
		entries = append(entries, user.Consumption{FoodID: id})
	}

	set := NewRecentSet(entries)

	assert.Len(t, set, RecentWindow)
	assert.True(t, set.Contains(10))
	assert.False(t, set.Contains(11))
}

type fixedStrategy struct{ delta float64 }

func (s fixedStrategy) Name() string  { return "fixed" }
func (s fixedStrategy) Enabled() bool { return true }
func (s fixedStrategy) Adjust(*Input) (float64, string) {
	return s.delta, "Model adjustment"
}

func TestEngine_StrategyAppliedAfterRules(t *testing.T) {
	engine := NewEngine(fixedStrategy{delta: -80})
	result := engine.Score(user.Profile{}, food.Item{ID: 1}, recommendation.MealAll, nil)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, []string{"Model adjustment"}, result.Reasons)
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("")
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	_, err = NewStrategy("xgboost")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}
