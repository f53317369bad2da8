// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/zoenutrition/zoe/internal/infrastructure/persistence/gorm"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, log logger.Interface) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = MemoryPath
	}
	if log == nil {
		log = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         log,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// Every connection to :memory: is a separate database, and sqlite
	// serialises writers anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := gormModels.AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// DemoUserID identifies the seeded demo profile
var DemoUserID = uuid.MustParse("5b0f3a52-7c43-4d55-9b51-2f6f0d9c1e01")

// SeedDatabase populates an empty database with the Ugandan staple
// catalog and a demo profile
func SeedDatabase(db *gorm.DB) error {
	var count int64
	if err := db.Model(&gormModels.FoodItemModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count food items: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		for _, item := range SeedFoods(now) {
			if err := tx.Create(gormModels.FoodToModel(item)).Error; err != nil {
				return fmt.Errorf("failed to seed %s: %w", item.Name, err)
			}
		}

		budget := 300000.0
		age := 34
		height, weight := 165.0, 72.0
		demo := &gormModels.UserProfileModel{
			ID:            DemoUserID,
			FirstName:     "Nakato",
			HasDiabetes:   true,
			DiabetesType:  "type2",
			PrimaryGoal:   "lose_weight",
			MonthlyBudget: &budget,
			Age:           &age,
			HeightCm:      &height,
			WeightKg:      &weight,
		}
		if err := tx.Create(demo).Error; err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}
		return nil
	})
}
