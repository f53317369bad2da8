package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

// RecommendationRepository implements outbound.RecommendationStore using GORM
type RecommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

var _ outbound.RecommendationStore = (*RecommendationRepository)(nil)

// FindExisting looks up the recommendation stored under (user, food, meal)
func (r *RecommendationRepository) FindExisting(ctx context.Context, userID uuid.UUID, foodID int64, meal recommendation.MealType) (*recommendation.Recommendation, error) {
	var model RecommendationModel

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND food_item_id = ? AND meal_suggestion = ?", userID, foodID, string(meal)).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, result.Error
	}

	return ModelToRecommendation(&model), nil
}

// Save inserts a new recommendation
func (r *RecommendationRepository) Save(ctx context.Context, rec *recommendation.Recommendation) error {
	if err := r.db.WithContext(ctx).Create(RecommendationToModel(rec)).Error; err != nil {
		if isDuplicateKey(err) {
			return outbound.ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByID finds a recommendation by ID
func (r *RecommendationRepository) FindByID(ctx context.Context, id uuid.UUID) (*recommendation.Recommendation, error) {
	var model RecommendationModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, result.Error
	}

	return ModelToRecommendation(&model), nil
}

// UpdateAcceptance records the user's response
func (r *RecommendationRepository) UpdateAcceptance(ctx context.Context, id uuid.UUID, acceptance recommendation.Acceptance) error {
	result := r.db.WithContext(ctx).
		Model(&RecommendationModel{}).
		Where("id = ?", id).
		Update("is_accepted", acceptanceToColumn(acceptance))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

// ListByUser returns the newest recommendations first
func (r *RecommendationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error) {
	var models []RecommendationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("confidence_score DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	recs := make([]*recommendation.Recommendation, len(models))
	for i := range models {
		recs[i] = ModelToRecommendation(&models[i])
	}
	return recs, nil
}
