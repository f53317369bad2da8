// Package gorm provides GORM model definitions and repositories
package gorm

import (
	"database/sql/driver"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FoodItemModel represents the GORM model for catalog items
type FoodItemModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(120);not null;index"`
	LocalName   string `gorm:"type:varchar(120);index"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"type:varchar(50);index"`

	// Unicode lowercase of the names, folded in Go for prefix lookups
	NameKey      string `gorm:"type:varchar(120);index"`
	LocalNameKey string `gorm:"type:varchar(120);index"`

	// Per 100g
	Calories      *float64
	Protein       *float64
	Carbohydrates *float64
	Fiber         *float64
	Fat           *float64
	Sugar         *float64
	GlycemicIndex *float64
	VitaminC      *float64 `gorm:"column:vitamin_c"`
	Iron          *float64

	CurrentPrice     *float64
	PriceUnit        string `gorm:"type:varchar(20)"`
	PriceLastUpdated *time.Time

	// Written on every insert, so no gorm default tags here
	IsAffordable       bool `gorm:"not null;index"`
	DiabetesFriendly   bool `gorm:"not null"`
	WeightLossFriendly bool `gorm:"not null"`
	WeightGainFriendly bool `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserProfileModel represents the GORM model for user nutrition profiles
type UserProfileModel struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey"`
	FirstName     string    `gorm:"type:varchar(100)"`
	HasDiabetes   bool      `gorm:"default:false"`
	DiabetesType  string    `gorm:"type:varchar(20)"`
	PrimaryGoal   string    `gorm:"type:varchar(50);default:'other'"`
	MonthlyBudget *float64
	Age           *int
	HeightCm      *float64
	WeightKg      *float64

	OfflineModeEnabled bool `gorm:"default:false"`
	LastSync           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FoodLogModel represents one consumed food
type FoodLogModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID `gorm:"type:char(36);not null;index:idx_food_logs_user_time,priority:1"`
	FoodItemID int64     `gorm:"not null;index"`
	ConsumedAt time.Time `gorm:"not null;index:idx_food_logs_user_time,priority:2"`
	CreatedAt  time.Time
}

// RecommendationModel represents the GORM model for recommendations.
// MealSuggestion stores "all" rather than NULL so the unique index covers it.
type RecommendationModel struct {
	ID                 uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID             uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_recommendation_key,priority:1;index"`
	FoodItemID         int64     `gorm:"not null;uniqueIndex:idx_recommendation_key,priority:2"`
	MealSuggestion     string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_recommendation_key,priority:3"`
	RecommendationType string    `gorm:"type:varchar(20);not null"`
	ConfidenceScore    float64   `gorm:"not null"`
	Reasoning          string    `gorm:"type:text"`
	ServingSize        float64
	EstimatedCost      float64
	ModelVersion       string `gorm:"type:varchar(20)"`
	FeaturesUsed       string `gorm:"type:text"`
	IsAccepted         *bool
	CreatedAt          time.Time `gorm:"index"`
}

// FoodPriceModel represents one observed market price
type FoodPriceModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	FoodItemID int64     `gorm:"not null;index:idx_food_prices_item_time,priority:1"`
	Price      float64   `gorm:"not null"`
	Location   string    `gorm:"type:varchar(100)"`
	Source     string    `gorm:"type:varchar(50)"`
	RecordedAt time.Time `gorm:"not null;index:idx_food_prices_item_time,priority:2"`
}

// ChatHistoryModel represents one assistant exchange
type ChatHistoryModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Message   string    `gorm:"type:text;not null"`
	Response  string    `gorm:"type:text"`
	Intent    string    `gorm:"type:varchar(50);index"`
	Entities  JSONField `gorm:"type:json"`
	CreatedAt time.Time `gorm:"index"`
}

// JSONField custom type for handling JSON fields
type JSONField map[string]interface{}

// Scan implements the sql.Scanner interface
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = JSONField{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONField", value)
	}
}

// Value implements the driver.Valuer interface
func (j JSONField) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BeforeCreate hook for UserProfileModel
func (u *UserProfileModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for FoodLogModel
func (f *FoodLogModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RecommendationModel
func (r *RecommendationModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for ChatHistoryModel
func (c *ChatHistoryModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (FoodItemModel) TableName() string {
	return "food_items"
}

func (UserProfileModel) TableName() string {
	return "users"
}

func (FoodLogModel) TableName() string {
	return "food_logs"
}

func (RecommendationModel) TableName() string {
	return "recommendations"
}

func (FoodPriceModel) TableName() string {
	return "food_prices"
}

func (ChatHistoryModel) TableName() string {
	return "chat_history"
}

// Models lists every model in migration order
func Models() []interface{} {
	return []interface{}{
		&FoodItemModel{},
		&UserProfileModel{},
		&FoodLogModel{},
		&RecommendationModel{},
		&FoodPriceModel{},
		&ChatHistoryModel{},
	}
}

// AutoMigrate creates or updates every table
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
