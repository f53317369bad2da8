package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zoenutrition/zoe/internal/domain/user"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

// ProfileRepository implements outbound.ProfileRepository using GORM
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

var _ outbound.ProfileRepository = (*ProfileRepository)(nil)

// FindByID finds a profile by user ID
func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.Profile, error) {
	var model UserProfileModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, result.Error
	}

	return ModelToProfile(&model), nil
}

// Save inserts or updates a profile
func (r *ProfileRepository) Save(ctx context.Context, profile *user.Profile) error {
	model := ProfileToModel(profile)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	profile.ID = model.ID
	profile.CreatedAt = model.CreatedAt
	profile.UpdatedAt = model.UpdatedAt
	return nil
}

// ConsumptionRepository implements outbound.ConsumptionRepository using GORM
type ConsumptionRepository struct {
	db *gorm.DB
}

// NewConsumptionRepository creates a new food log repository
func NewConsumptionRepository(db *gorm.DB) *ConsumptionRepository {
	return &ConsumptionRepository{db: db}
}

var _ outbound.ConsumptionRepository = (*ConsumptionRepository)(nil)

// Record appends an entry to the user's food log
func (r *ConsumptionRepository) Record(ctx context.Context, userID uuid.UUID, entry user.Consumption) error {
	consumedAt := entry.ConsumedAt
	if consumedAt.IsZero() {
		consumedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(&FoodLogModel{
		UserID:     userID,
		FoodItemID: entry.FoodID,
		ConsumedAt: consumedAt,
	}).Error
}

// LastN returns up to n entries, newest first
func (r *ConsumptionRepository) LastN(ctx context.Context, userID uuid.UUID, n int) ([]user.Consumption, error) {
	var models []FoodLogModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("consumed_at DESC").
		Limit(n).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]user.Consumption, len(models))
	for i, m := range models {
		entries[i] = user.Consumption{FoodID: m.FoodItemID, ConsumedAt: m.ConsumedAt}
	}
	return entries, nil
}
