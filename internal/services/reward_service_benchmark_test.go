package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pieats/internal/models"
)

func setupBenchmarkDB(b *testing.B) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		b.Fatalf("failed to connect database: %v", err)
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
		b.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func seedLedger(db *gorm.DB, userCount, actionsPerUser int) {
	restaurants := make([]models.Restaurant, 10)
	for i := range restaurants {
		restaurants[i] = models.Restaurant{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("Restaurant %d", i),
			Address:   "1 Bench St",
			CreatedBy: "seeder",
			Balance:   decimal.Zero,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}
	db.CreateInBatches(restaurants, 100)

	types := []models.ActionType{
		models.ActionRecommend, models.ActionLike, models.ActionRating,
		models.ActionComment, models.ActionTip, models.ActionPayment,
	}

	actions := make([]models.UserAction, 0, userCount*actionsPerUser)
	for u := 0; u < userCount; u++ {
		for a := 0; a < actionsPerUser; a++ {
			actions = append(actions, models.UserAction{
				ID:           uuid.NewString(),
				DedupKey:     uuid.NewString(),
				UserID:       fmt.Sprintf("user-%d", u),
				RestaurantID: restaurants[a%len(restaurants)].ID,
				ActionType:   types[a%len(types)],
				CreatedAt:    time.Now(),
			})
		}
	}
	db.CreateInBatches(actions, 100)
}

// BenchmarkComputeAnnualDistribution measures the full-ledger replay at
// growing ledger sizes.
func BenchmarkComputeAnnualDistribution(b *testing.B) {
	userCounts := []int{10, 100, 1000}

	for _, count := range userCounts {
		b.Run(fmt.Sprintf("Users-%d", count), func(b *testing.B) {
			db := setupBenchmarkDB(b)
			scores := NewScoreService(db)
			service := NewRewardService(db, scores)

			seedLedger(db, count, 10)
			scores.CreditRewardPool(decimal.NewFromInt(1000))

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := service.ComputeAnnualDistribution(); err != nil {
					b.Fatalf("ComputeAnnualDistribution failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkUserReward measures the single-restaurant live estimate.
func BenchmarkUserReward(b *testing.B) {
	db := setupBenchmarkDB(b)
	scores := NewScoreService(db)
	service := NewRewardService(db, scores)

	seedLedger(db, 100, 10)
	scores.CreditRewardPool(decimal.NewFromInt(1000))

	var restaurant models.Restaurant
	if err := db.First(&restaurant).Error; err != nil {
		b.Fatalf("failed to load restaurant: %v", err)
	}
	scores.AddRestaurantScore(restaurant.ID, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		service.UserReward("user-0", restaurant.ID)
	}
}
