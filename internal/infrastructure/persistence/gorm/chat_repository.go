package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zoenutrition/zoe/internal/domain/chat"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

// ChatRepository implements outbound.ChatHistoryRepository using GORM
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat history repository
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

var _ outbound.ChatHistoryRepository = (*ChatRepository)(nil)

// Append stores one exchange
func (r *ChatRepository) Append(ctx context.Context, exchange chat.Exchange) error {
	model, err := ExchangeToModel(exchange)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Recent returns the newest exchanges first
func (r *ChatRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]chat.Exchange, error) {
	var models []ChatHistoryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	exchanges := make([]chat.Exchange, len(models))
	for i := range models {
		exchanges[i] = ModelToExchange(&models[i])
	}
	return exchanges, nil
}
