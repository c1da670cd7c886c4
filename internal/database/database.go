package database

import (
	"fmt"
	"log"

	"pieats/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database.
// TranslateError is on so unique-key violations surface as
// gorm.ErrDuplicatedKey; the action ledger's insert-if-absent depends on it.
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	// Migrate identity models first
	identityModels := []interface{}{
		&models.User{},
		&models.UserScore{},
	}

	for _, model := range identityModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Migrate restaurant models
	restaurantModels := []interface{}{
		&models.Restaurant{},
	}

	for _, model := range restaurantModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Migrate accounting models
	accountingModels := []interface{}{
		&models.UserAction{},
		&models.PaymentRecord{},
		&models.RewardPool{},
	}

	for _, model := range accountingModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
