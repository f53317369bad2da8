package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/infrastructure/persistence/memory"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
	"github.com/zoenutrition/zoe/test/testutils"
	apperrors "github.com/zoenutrition/zoe/pkg/errors"
)

type SearchServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	service *Service
}

func (suite *SearchServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.service = NewService(memory.NewCatalog(testutils.SampleFoods()...), zap.NewNop())
}

func ids(dtos []inbound.FoodDTO) []int64 {
	out := make([]int64, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.ID)
	}
	return out
}

func (suite *SearchServiceTestSuite) TestSearch() {
	suite.Run("BlankQueryWithCategoryReturnsCatalogOrder", func() {
		fruits := food.CategoryFruits
		results := suite.service.Search(suite.ctx, inbound.SearchQuery{
			Text:    "   ",
			Filters: inbound.SearchFilters{Category: &fruits},
			Limit:   10,
		})
		suite.Equal([]int64{1, 2}, ids(results))
	})

	suite.Run("BlankQueryHonoursLimit", func() {
		results := suite.service.Search(suite.ctx, inbound.SearchQuery{Limit: 3})
		suite.Equal([]int64{1, 2, 3}, ids(results))
	})

	suite.Run("ExactNameRanksFirst", func() {
		results := suite.service.Search(suite.ctx, inbound.SearchQuery{Text: "banana"})
		suite.Require().NotEmpty(results)
		suite.Equal(int64(2), results[0].ID)
		suite.Contains(ids(results), int64(4), "matooke mentions banana in its description")
	})

	suite.Run("UnaffordableItemsNeverReturned", func() {
		results := suite.service.Search(suite.ctx, inbound.SearchQuery{Text: "salmon"})
		suite.Empty(results)
	})

	suite.Run("StructuralFiltersApply", func() {
		yes := true
		results := suite.service.Search(suite.ctx, inbound.SearchQuery{
			Filters: inbound.SearchFilters{DiabetesFriendly: &yes, MaxCalories: food.Value(100)},
		})
		suite.Equal([]int64{1, 6}, ids(results))
	})

	suite.Run("NoMatchesIsEmptyNotNil", func() {
		results := suite.service.Search(suite.ctx, inbound.SearchQuery{Text: "pizza"})
		suite.NotNil(results)
		suite.Empty(results)
	})
}

func (suite *SearchServiceTestSuite) TestAutocomplete() {
	suite.Empty(suite.service.Autocomplete(suite.ctx, "a", 10))

	results := suite.service.Autocomplete(suite.ctx, "ap", 10)
	suite.Require().Len(results, 1)
	suite.Equal("Apple", results[0].Name)
	suite.Equal(int64(1), results[0].ID)

	local := suite.service.Autocomplete(suite.ctx, "KAW", 10)
	suite.Require().Len(local, 1)
	suite.Equal("Posho", local[0].Name)

	suite.Len(suite.service.Autocomplete(suite.ctx, "ma", 1), 1)
}

func (suite *SearchServiceTestSuite) TestSearchByNutrition() {
	results := suite.service.SearchByNutrition(suite.ctx, inbound.NutritionQuery{
		MinProtein: food.Value(10),
	})
	suite.Equal([]int64{3}, ids(results), "salmon is excluded as unaffordable")

	results = suite.service.SearchByNutrition(suite.ctx, inbound.NutritionQuery{
		MaxGlycemicIndex: food.Value(40),
		MinFiber:         food.Value(2),
	})
	suite.Equal([]int64{1, 3, 6}, ids(results))
}

func (suite *SearchServiceTestSuite) TestGetFood() {
	dto, err := suite.service.GetFood(suite.ctx, 3)
	suite.Require().NoError(err)
	suite.Equal("Beans", dto.Name)

	_, err = suite.service.GetFood(suite.ctx, 404)
	suite.True(apperrors.Is(err, apperrors.CodeFoodNotFound))
}

func TestSearchServiceSuite(t *testing.T) {
	suite.Run(t, new(SearchServiceTestSuite))
}

type failingCatalog struct {
	mock.Mock
	*memory.Catalog
}

func (f *failingCatalog) Query(ctx context.Context, filter food.Filter) ([]food.Item, error) {
	args := f.Called(ctx, filter)
	return nil, args.Error(1)
}

func TestSearch_CatalogFailureDegradesToEmpty(t *testing.T) {
	catalog := &failingCatalog{Catalog: memory.NewCatalog()}
	catalog.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("database is locked"))

	service := NewService(catalog, zap.NewNop())
	results := service.Search(context.Background(), inbound.SearchQuery{Text: "beans"})

	if len(results) != 0 || results == nil {
		t.Fatalf("expected an empty result, got %v", results)
	}
	catalog.AssertExpectations(t)
}

type recordingCatalog struct {
	mock.Mock
	*memory.Catalog
}

func (r *recordingCatalog) Autocomplete(ctx context.Context, prefix string, limit int) ([]food.Item, error) {
	r.Called(prefix)
	return r.Catalog.Autocomplete(ctx, prefix, limit)
}

func TestAutocomplete_PrefixIsNotTrimmed(t *testing.T) {
	catalog := &recordingCatalog{Catalog: memory.NewCatalog(testutils.SampleFoods()...)}
	catalog.On("Autocomplete", mock.Anything)
	service := NewService(catalog, zap.NewNop())

	if got := service.Autocomplete(context.Background(), "ap ", 10); len(got) != 0 {
		t.Fatalf("trailing space must not match Apple, got %v", got)
	}
	if got := service.Autocomplete(context.Background(), " a", 10); len(got) != 0 {
		t.Fatalf("leading space must not match, got %v", got)
	}
	if got := service.Autocomplete(context.Background(), "é", 10); len(got) != 0 {
		t.Fatalf("one rune is too short, got %v", got)
	}

	catalog.AssertCalled(t, "Autocomplete", "ap ")
	catalog.AssertCalled(t, "Autocomplete", " a")
	catalog.AssertNumberOfCalls(t, "Autocomplete", 2)
}
