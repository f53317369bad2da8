package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OfflineService prepares data for use without connectivity
type OfflineService interface {
	Enable(ctx context.Context, userID uuid.UUID) (*OfflineStatusDTO, error)
	Disable(ctx context.Context, userID uuid.UUID) (*OfflineStatusDTO, error)
	Load(ctx context.Context, userID uuid.UUID) (*OfflineSnapshot, error)
	Features() OfflineFeatures
	IsOnline(ctx context.Context) bool
}

// OfflineStatusDTO reports the offline state of a user
type OfflineStatusDTO struct {
	OfflineMode bool            `json:"offline_mode"`
	LastSync    *time.Time      `json:"last_sync,omitempty"`
	Online      bool            `json:"online"`
	Features    OfflineFeatures `json:"features"`
}

// OfflineSnapshot is everything cached for offline use
type OfflineSnapshot struct {
	User            ProfileDTO          `json:"user"`
	FoodItems       []FoodDTO           `json:"food_items"`
	Recommendations []RecommendationDTO `json:"recommendations"`
	CachedAt        time.Time           `json:"cached_at"`
}

// OfflineFeatures lists which features work without connectivity
type OfflineFeatures struct {
	FoodSearch          bool `json:"food_search"`
	ViewRecommendations bool `json:"view_recommendations"`
	LogFood             bool `json:"log_food"`
	ViewProfile         bool `json:"view_profile"`
	Chatbot             bool `json:"chatbot"`
	PriceUpdates        bool `json:"price_updates"`
	SyncData            bool `json:"sync_data"`
}
