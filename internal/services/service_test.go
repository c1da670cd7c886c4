package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pieats/internal/models"
)

// setupTestDB opens a fresh in-memory database per test. TranslateError is
// on, as in production, so the ledger's duplicate-key handling is exercised.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserScore{},
		&models.Restaurant{},
		&models.UserAction{},
		&models.PaymentRecord{},
		&models.RewardPool{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func createTestRestaurant(t *testing.T, db *gorm.DB, name string) *models.Restaurant {
	t.Helper()

	service := NewRestaurantService(db, nil)
	restaurant, err := service.CreateRestaurant(CreateRestaurantInput{
		Name:      name,
		Address:   "1 Test Street",
		Latitude:  25.03,
		Longitude: 121.56,
		Dishes:    []string{"noodles"},
		CreatedBy: "creator-uid",
	})
	if err != nil {
		t.Fatalf("failed to create restaurant: %v", err)
	}
	return restaurant
}
