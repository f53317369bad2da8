package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

// PriceHistoryRepository implements outbound.PriceHistoryRepository using GORM
type PriceHistoryRepository struct {
	db *gorm.DB
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(db *gorm.DB) *PriceHistoryRepository {
	return &PriceHistoryRepository{db: db}
}

var _ outbound.PriceHistoryRepository = (*PriceHistoryRepository)(nil)

// Append records an observed price
func (r *PriceHistoryRepository) Append(ctx context.Context, point food.PricePoint) error {
	return r.db.WithContext(ctx).Create(&FoodPriceModel{
		FoodItemID: point.FoodID,
		Price:      point.Price,
		Location:   point.Location,
		Source:     point.Source,
		RecordedAt: point.RecordedAt,
	}).Error
}

// Since returns points recorded at or after since, oldest first
func (r *PriceHistoryRepository) Since(ctx context.Context, foodID int64, since time.Time) ([]food.PricePoint, error) {
	var models []FoodPriceModel
	err := r.db.WithContext(ctx).
		Where("food_item_id = ? AND recorded_at >= ?", foodID, since).
		Order("recorded_at").
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	points := make([]food.PricePoint, len(models))
	for i, m := range models {
		points[i] = food.PricePoint{
			FoodID:     m.FoodItemID,
			Price:      m.Price,
			Location:   m.Location,
			Source:     m.Source,
			RecordedAt: m.RecordedAt,
		}
	}
	return points, nil
}
