package gorm

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

// FoodRepository implements outbound.FoodCatalog using GORM
type FoodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a new food repository
func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

var _ outbound.FoodCatalog = (*FoodRepository)(nil)

// Query returns every item matching the filter in ID order
func (r *FoodRepository) Query(ctx context.Context, filter food.Filter) ([]food.Item, error) {
	query := r.db.WithContext(ctx).Model(&FoodItemModel{})

	if filter.AffordableOnly {
		query = query.Where("is_affordable = ?", true)
	}
	if len(filter.Categories) > 0 {
		categories := make([]string, len(filter.Categories))
		for i, c := range filter.Categories {
			categories[i] = string(c)
		}
		query = query.Where("category IN ?", categories)
	}
	if filter.DiabetesFriendly != nil {
		query = query.Where("diabetes_friendly = ?", *filter.DiabetesFriendly)
	}
	query = bound(query, "current_price", "<=", filter.MaxPrice)
	query = bound(query, "calories", ">=", filter.MinCalories)
	query = bound(query, "calories", "<=", filter.MaxCalories)
	query = bound(query, "protein", ">=", filter.MinProtein)
	query = bound(query, "carbohydrates", "<=", filter.MaxCarbohydrates)
	query = bound(query, "fiber", ">=", filter.MinFiber)
	query = bound(query, "glycemic_index", "<=", filter.MaxGlycemicIndex)

	var models []FoodItemModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return modelsToFoods(models), nil
}

// bound adds a comparison on a nullable column. SQL NULL never satisfies
// the comparison, so unknown values are excluded.
func bound(query *gorm.DB, column, op string, value *float64) *gorm.DB {
	if value == nil {
		return query
	}
	return query.Where(column+" "+op+" ?", *value)
}

// All returns the whole catalog
func (r *FoodRepository) All(ctx context.Context) ([]food.Item, error) {
	var models []FoodItemModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return modelsToFoods(models), nil
}

// FindByID finds an item by ID
func (r *FoodRepository) FindByID(ctx context.Context, id int64) (*food.Item, error) {
	var model FoodItemModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, result.Error
	}

	item := ModelToFood(&model)
	return &item, nil
}

// FindByIDs returns the items that exist among ids
func (r *FoodRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]food.Item, error) {
	out := make(map[int64]food.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var models []FoodItemModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	for i := range models {
		out[models[i].ID] = ModelToFood(&models[i])
	}
	return out, nil
}

// Autocomplete matches a case-insensitive prefix of name or local name.
// Case folding happens in Go on both sides, since sqlite's LOWER only
// folds ASCII.
func (r *FoodRepository) Autocomplete(ctx context.Context, prefix string, limit int) ([]food.Item, error) {
	pattern := escapeLike(strings.ToLower(prefix)) + "%"

	var models []FoodItemModel
	err := r.db.WithContext(ctx).
		Where("name_key LIKE ? ESCAPE '\\' OR local_name_key LIKE ? ESCAPE '\\'", pattern, pattern).
		Order("id").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return modelsToFoods(models), nil
}

// Cheapest lists affordable items priced at or below maxPrice, cheapest first
func (r *FoodRepository) Cheapest(ctx context.Context, maxPrice float64, limit int) ([]food.Item, error) {
	var models []FoodItemModel
	err := r.db.WithContext(ctx).
		Where("is_affordable = ? AND current_price <= ?", true, maxPrice).
		Order("current_price").
		Order("id").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return modelsToFoods(models), nil
}

// UpdatePrice sets an item's current price
func (r *FoodRepository) UpdatePrice(ctx context.Context, id int64, price float64, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&FoodItemModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_price":      price,
			"price_last_updated": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

// Create inserts a catalog item, assigning its ID when zero
func (r *FoodRepository) Create(ctx context.Context, item *food.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	model := FoodToModel(*item)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return outbound.ErrDuplicate
		}
		return err
	}
	item.ID = model.ID
	return nil
}

func modelsToFoods(models []FoodItemModel) []food.Item {
	items := make([]food.Item, len(models))
	for i := range models {
		items[i] = ModelToFood(&models[i])
	}
	return items
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
