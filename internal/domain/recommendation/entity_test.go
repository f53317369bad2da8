package recommendation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/user"
)

type RecommendationTestSuite struct {
	suite.Suite
	userID uuid.UUID
	now    time.Time
}

func (suite *RecommendationTestSuite) SetupTest() {
	suite.userID = uuid.New()
	suite.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *RecommendationTestSuite) validParams() Params {
	return Params{
		UserID:        suite.userID,
		FoodID:        7,
		Meal:          MealLunch,
		Confidence:    0.85,
		Reasoning:     "Affordable within your budget",
		ServingSize:   100,
		EstimatedCost: 250,
		CreatedAt:     suite.now,
	}
}

func (suite *RecommendationTestSuite) TestCreation() {
	suite.Run("ValidParams_ShouldCreateHybridRecommendation", func() {
		rec, err := NewRecommendation(suite.validParams())

		require.NoError(suite.T(), err)
		assert.NotEqual(suite.T(), uuid.Nil, rec.ID())
		assert.Equal(suite.T(), TypeHybrid, rec.Type())
		assert.Equal(suite.T(), ModelVersion, rec.ModelVersion())
		assert.Equal(suite.T(), AcceptanceUnset, rec.Acceptance())

		events := rec.Events()
		require.Len(suite.T(), events, 1)
		created, ok := events[0].(RecommendationCreatedEvent)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), rec.ID(), created.RecommendationID)
		assert.Empty(suite.T(), rec.Events(), "events are drained once read")
	})

	suite.Run("EmptyMeal_DefaultsToAll", func() {
		p := suite.validParams()
		p.Meal = ""
		rec, err := NewRecommendation(p)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), MealAll, rec.Meal())
	})

	suite.Run("ConfidenceOutOfRange_ShouldFail", func() {
		for _, c := range []float64{-0.1, 1.01} {
			p := suite.validParams()
			p.Confidence = c
			_, err := NewRecommendation(p)
			assert.ErrorIs(suite.T(), err, ErrInvalidConfidence)
		}
	})

	suite.Run("MissingUserOrFood_ShouldFail", func() {
		p := suite.validParams()
		p.UserID = uuid.Nil
		_, err := NewRecommendation(p)
		assert.ErrorIs(suite.T(), err, ErrMissingUser)

		p = suite.validParams()
		p.FoodID = 0
		_, err = NewRecommendation(p)
		assert.ErrorIs(suite.T(), err, ErrMissingFood)
	})
}

func (suite *RecommendationTestSuite) TestResponses() {
	suite.Run("OwnerAccepts", func() {
		rec, err := NewRecommendation(suite.validParams())
		require.NoError(suite.T(), err)
		rec.Events()

		require.NoError(suite.T(), rec.Accept(suite.userID, suite.now))
		assert.Equal(suite.T(), AcceptanceAccepted, rec.Acceptance())

		events := rec.Events()
		require.Len(suite.T(), events, 1)
		assert.Equal(suite.T(), "recommendation.accepted", events[0].EventName())
	})

	suite.Run("OtherUserCannotReject", func() {
		rec, err := NewRecommendation(suite.validParams())
		require.NoError(suite.T(), err)

		err = rec.Reject(uuid.New(), suite.now)
		assert.ErrorIs(suite.T(), err, ErrNotOwner)
		assert.Equal(suite.T(), AcceptanceUnset, rec.Acceptance())
	})

	suite.Run("SnapshotRoundTripKeepsAcceptance", func() {
		rec, err := NewRecommendation(suite.validParams())
		require.NoError(suite.T(), err)
		require.NoError(suite.T(), rec.Reject(suite.userID, suite.now))

		restored := Restore(rec.Snapshot())
		assert.Equal(suite.T(), rec.ID(), restored.ID())
		assert.Equal(suite.T(), AcceptanceRejected, restored.Acceptance())
		assert.Empty(suite.T(), restored.Events())
	})
}

func TestRecommendationSuite(t *testing.T) {
	suite.Run(t, new(RecommendationTestSuite))
}

func TestParseMealType(t *testing.T) {
	tests := []struct {
		input string
		want  MealType
		ok    bool
	}{
		{"breakfast", MealBreakfast, true},
		{" Dinner ", MealDinner, true},
		{"", MealAll, true},
		{"brunch", MealAll, false},
	}
	for _, tt := range tests {
		got, ok := ParseMealType(tt.input)
		assert.Equal(t, tt.want, got, tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
	}
}

func TestMealCategories(t *testing.T) {
	assert.Nil(t, MealAll.Categories())
	assert.ElementsMatch(t,
		[]food.Category{food.CategoryFruits, food.CategoryVegetables},
		MealSnack.Categories())
	assert.Equal(t, MealLunch.Categories(), MealDinner.Categories())
}

func TestServingSize(t *testing.T) {
	assert.Equal(t, 80.0, ServingSize(user.GoalLoseWeight))
	assert.Equal(t, 120.0, ServingSize(user.GoalGainWeight))
	assert.Equal(t, 100.0, ServingSize(user.GoalHealthyEating))
	assert.Equal(t, 100.0, ServingSize(user.GoalOther))
}
