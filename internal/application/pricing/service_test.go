package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/domain/food"
	gormrepo "github.com/zoenutrition/zoe/internal/infrastructure/persistence/gorm"
	"github.com/zoenutrition/zoe/test/testutils"
	apperrors "github.com/zoenutrition/zoe/pkg/errors"
)

type PriceServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	source  *testutils.MockPriceSource
	catalog *gormrepo.FoodRepository
	service *Service
	dbCheck *testutils.DatabaseAssertions
}

func (suite *PriceServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Now().UTC().Truncate(time.Second)

	db := testutils.SetupSQLite(suite.T())
	testutils.SeedFoods(suite.T(), db, testutils.SampleFoods()...)

	suite.source = new(testutils.MockPriceSource)
	suite.catalog = gormrepo.NewFoodRepository(db)
	suite.dbCheck = testutils.NewDatabaseAssertions(suite.T(), db)
	suite.service = NewService(suite.catalog, gormrepo.NewPriceHistoryRepository(db), suite.source, Options{}, zap.NewNop())
	suite.service.now = func() time.Time { return suite.now }
}

func (suite *PriceServiceTestSuite) quoteAll(price float64) {
	suite.source.On("Fetch", mock.Anything, mock.Anything).
		Return(food.PriceQuote{Price: price, Location: "Kampala", Source: "mock"}, nil)
}

func (suite *PriceServiceTestSuite) TestUpdateRefreshesStalePricesOnly() {
	suite.quoteAll(1234.567)

	result, err := suite.service.UpdatePrices(suite.ctx, false)
	suite.Require().NoError(err)
	suite.Equal(7, result.Updated, "never-priced items are stale")
	suite.Zero(result.Skipped)

	item, err := suite.catalog.FindByID(suite.ctx, 3)
	suite.Require().NoError(err)
	suite.Require().NotNil(item.Price)
	suite.Equal(1234.57, *item.Price)
	suite.Require().NotNil(item.PriceUpdatedAt)
	suite.True(item.PriceUpdatedAt.Equal(suite.now))
	suite.dbCheck.RecordCount("food_prices", 7)

	suite.now = suite.now.Add(time.Hour)
	result, err = suite.service.UpdatePrices(suite.ctx, false)
	suite.Require().NoError(err)
	suite.Equal(0, result.Updated)
	suite.Equal(7, result.Skipped)

	result, err = suite.service.UpdatePrices(suite.ctx, true)
	suite.Require().NoError(err)
	suite.Equal(7, result.Updated)
	suite.dbCheck.RecordCount("food_prices", 14)

	suite.now = suite.now.Add(25 * time.Hour)
	result, err = suite.service.UpdatePrices(suite.ctx, false)
	suite.Require().NoError(err)
	suite.Equal(7, result.Updated, "a day later everything is stale again")
}

func (suite *PriceServiceTestSuite) TestUpdateCountsFailures() {
	suite.source.On("Fetch", mock.Anything, mock.MatchedBy(func(item food.Item) bool { return item.ID == 3 })).
		Return(food.PriceQuote{}, errors.New("timeout"))
	suite.quoteAll(900)

	result, err := suite.service.UpdatePrices(suite.ctx, true)
	suite.Require().NoError(err)
	suite.Equal(6, result.Updated)
	suite.Equal(1, result.Failed)

	beans, err := suite.catalog.FindByID(suite.ctx, 3)
	suite.Require().NoError(err)
	suite.Equal(4000.0, *beans.Price, "failed items keep their price")
}

func (suite *PriceServiceTestSuite) TestUpdateStopsOnCancellation() {
	suite.quoteAll(900)
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	result, err := suite.service.UpdatePrices(ctx, true)
	suite.ErrorIs(err, context.Canceled)
	suite.Require().NotNil(result)
	suite.Zero(result.Updated)
	suite.source.AssertNotCalled(suite.T(), "Fetch", mock.Anything, mock.Anything)
}

func (suite *PriceServiceTestSuite) TestTrend() {
	suite.quoteAll(1000)
	_, err := suite.service.UpdatePrices(suite.ctx, true)
	suite.Require().NoError(err)

	suite.now = suite.now.Add(48 * time.Hour)
	_, err = suite.service.UpdatePrices(suite.ctx, false)
	suite.Require().NoError(err)

	points, err := suite.service.Trend(suite.ctx, 1, 0)
	suite.Require().NoError(err)
	suite.Require().Len(points, 2)
	suite.True(points[0].Date.Before(points[1].Date), "oldest first")
	suite.Equal("Kampala", points[0].Location)

	points, err = suite.service.Trend(suite.ctx, 1, 1)
	suite.Require().NoError(err)
	suite.Len(points, 1, "only the last day")

	_, err = suite.service.Trend(suite.ctx, 999, 30)
	suite.True(apperrors.Is(err, apperrors.CodeFoodNotFound))
}

func (suite *PriceServiceTestSuite) TestAffordableFoods() {
	foods, err := suite.service.AffordableFoods(suite.ctx, 1500, 0)
	suite.Require().NoError(err)
	suite.Require().Len(foods, 3)
	suite.Equal("Apple", foods[0].Name)
	suite.Equal("Sukuma Wiki", foods[1].Name)
	suite.Equal("Matooke", foods[2].Name)

	foods, err = suite.service.AffordableFoods(suite.ctx, 100000, 2)
	suite.Require().NoError(err)
	suite.Len(foods, 2)
	for _, f := range foods {
		suite.NotEqual("Imported Salmon", f.Name)
	}

	_, err = suite.service.AffordableFoods(suite.ctx, -1, 10)
	suite.True(apperrors.Is(err, apperrors.CodeValidationFailed))
}

func (suite *PriceServiceTestSuite) TestEstimateMealCost() {
	cost, err := suite.service.EstimateMealCost(suite.ctx, []food.Portion{
		{FoodID: 1, Grams: 200},    // apple, priced per piece
		{FoodID: 3, Grams: 250},    // beans at 4000/kg
		{FoodID: 2, Grams: 33.333}, // banana at 2000/kg
		{FoodID: 999, Grams: 100},  // unknown
	})
	suite.Require().NoError(err)
	suite.Equal(1566.67, cost.TotalCost)
	suite.Equal("UGX", cost.Currency)

	cost, err = suite.service.EstimateMealCost(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Zero(cost.TotalCost)

	_, err = suite.service.EstimateMealCost(suite.ctx, []food.Portion{{FoodID: 1, Grams: -5}})
	suite.True(apperrors.Is(err, apperrors.CodeValidationFailed))
}

func TestPriceServiceSuite(t *testing.T) {
	suite.Run(t, new(PriceServiceTestSuite))
}
