// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zoenutrition/zoe/internal/domain/chat"
	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/domain/user"
)

var (
	// ErrNotFound is returned by repositories when no row matches
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken
	ErrDuplicate = errors.New("duplicate record")
	// ErrCacheMiss is returned by caches for absent or expired keys
	ErrCacheMiss = errors.New("cache miss")
)

// FoodCatalog is read access to food items plus price maintenance.
// Every listing is in catalog order (ascending ID).
type FoodCatalog interface {
	Query(ctx context.Context, filter food.Filter) ([]food.Item, error)
	All(ctx context.Context) ([]food.Item, error)
	FindByID(ctx context.Context, id int64) (*food.Item, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]food.Item, error)
	// Autocomplete matches a case-insensitive prefix of name or local name
	Autocomplete(ctx context.Context, prefix string, limit int) ([]food.Item, error)
	// Cheapest lists items priced at or below maxPrice, cheapest first
	Cheapest(ctx context.Context, maxPrice float64, limit int) ([]food.Item, error)
	UpdatePrice(ctx context.Context, id int64, price float64, at time.Time) error
}

// ProfileRepository stores user nutrition profiles
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.Profile, error)
	Save(ctx context.Context, profile *user.Profile) error
}

// ConsumptionRepository stores the user's food log
type ConsumptionRepository interface {
	Record(ctx context.Context, userID uuid.UUID, entry user.Consumption) error
	// LastN returns up to n entries, newest first
	LastN(ctx context.Context, userID uuid.UUID, n int) ([]user.Consumption, error)
}

// RecommendationStore persists recommendations keyed by (user, food, meal)
type RecommendationStore interface {
	FindExisting(ctx context.Context, userID uuid.UUID, foodID int64, meal recommendation.MealType) (*recommendation.Recommendation, error)
	// Save returns ErrDuplicate when the (user, food, meal) key already exists
	Save(ctx context.Context, rec *recommendation.Recommendation) error
	FindByID(ctx context.Context, id uuid.UUID) (*recommendation.Recommendation, error)
	UpdateAcceptance(ctx context.Context, id uuid.UUID, acceptance recommendation.Acceptance) error
	// ListByUser returns the newest recommendations first
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error)
}

// PriceHistoryRepository stores observed prices
type PriceHistoryRepository interface {
	Append(ctx context.Context, point food.PricePoint) error
	// Since returns points recorded at or after since, oldest first
	Since(ctx context.Context, foodID int64, since time.Time) ([]food.PricePoint, error)
}

// ChatHistoryRepository stores assistant conversations
type ChatHistoryRepository interface {
	Append(ctx context.Context, exchange chat.Exchange) error
	// Recent returns the newest exchanges first
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]chat.Exchange, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	// Get returns ErrCacheMiss when the key is absent
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// PriceSource quotes a current market price for an item
type PriceSource interface {
	Name() string
	Fetch(ctx context.Context, item food.Item) (food.PriceQuote, error)
}

// ConnectivityProber reports whether the upstream network is reachable
type ConnectivityProber interface {
	Reachable(ctx context.Context) bool
}

// MessageBus defines the interface for publishing messages
type MessageBus interface {
	Publish(ctx context.Context, topic string, message Message) error
	Subscribe(topic string, handler MessageHandler)
}

// Message represents a message to be published
type Message struct {
	ID        string
	Type      string
	Payload   []byte
	Metadata  map[string]string
	Timestamp time.Time
}

// MessageHandler handles messages from the bus
type MessageHandler func(ctx context.Context, message Message) error
