package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pieats/internal/models"
)

// ScoreService owns the shared running counters: per-user global score, the
// per-restaurant total score, and the reward pool balance. The only mutation
// it performs is atomic increment-by-delta; reads of unknown keys are 0.
type ScoreService struct {
	db *gorm.DB
}

// NewScoreService creates a new ScoreService
func NewScoreService(db *gorm.DB) *ScoreService {
	return &ScoreService{db: db}
}

// AddUserScore increments a user's global score, creating the row on first
// score. A create lost to a concurrent first-scorer falls back to increment.
func (s *ScoreService) AddUserScore(uid string, points int) error {
	if strings.TrimSpace(uid) == "" {
		return fmt.Errorf("invalid uid: must be a non-empty string")
	}

	res := s.increment(uid, points)
	if res.Error != nil {
		return fmt.Errorf("failed to add score: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	score := models.UserScore{
		UID:           uid,
		Score:         int64(points),
		LastUpdatedAt: time.Now(),
	}
	err := s.db.Create(&score).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if res := s.increment(uid, points); res.Error != nil {
			return fmt.Errorf("failed to add score: %w", res.Error)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create score record: %w", err)
	}

	return nil
}

func (s *ScoreService) increment(uid string, points int) *gorm.DB {
	return s.db.Model(&models.UserScore{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"score":           gorm.Expr("score + ?", points),
			"last_updated_at": time.Now(),
		})
}

// GetUserScore returns a user's global score, 0 for unknown users and on
// read failure.
func (s *ScoreService) GetUserScore(uid string) int64 {
	var score models.UserScore
	err := s.db.Where("uid = ?", uid).First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	if err != nil {
		log.Printf("Error getting user score for %s: %v", uid, err)
		return 0
	}
	return score.Score
}

// AddRestaurantScore increments a restaurant's total score.
func (s *ScoreService) AddRestaurantScore(restaurantID string, points int) error {
	res := s.db.Model(&models.Restaurant{}).
		Where("id = ?", restaurantID).
		Updates(map[string]interface{}{
			"total_score": gorm.Expr("total_score + ?", points),
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to add restaurant score: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("restaurant %s not found", restaurantID)
	}
	return nil
}

// GetRestaurantScore returns a restaurant's total score, 0 when unknown and
// on read failure.
func (s *ScoreService) GetRestaurantScore(restaurantID string) int64 {
	var restaurant models.Restaurant
	err := s.db.Select("total_score").Where("id = ?", restaurantID).First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	if err != nil {
		log.Printf("Error getting restaurant score for %s: %v", restaurantID, err)
		return 0
	}
	return restaurant.TotalScore
}

// CreditRewardPool increments the shared pool balance, creating the singleton
// row on first credit.
func (s *ScoreService) CreditRewardPool(amount decimal.Decimal) error {
	return s.creditPool(s.db, amount)
}

// creditPool runs the increment-or-create against db, which may be an open
// transaction (payment completion credits the pool transactionally).
func (s *ScoreService) creditPool(db *gorm.DB, amount decimal.Decimal) error {
	res := db.Model(&models.RewardPool{}).
		Where("id = ?", models.RewardPoolID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to credit reward pool: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	pool := models.RewardPool{
		ID:        models.RewardPoolID,
		Balance:   amount,
		UpdatedAt: time.Now(),
	}
	err := db.Create(&pool).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		res := db.Model(&models.RewardPool{}).
			Where("id = ?", models.RewardPoolID).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance + ?", amount),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to credit reward pool: %w", res.Error)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create reward pool: %w", err)
	}

	return nil
}

// RewardPoolBalance returns the current pool balance, zero when the pool has
// never been credited and on read failure.
func (s *ScoreService) RewardPoolBalance() decimal.Decimal {
	var pool models.RewardPool
	err := s.db.Where("id = ?", models.RewardPoolID).First(&pool).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero
	}
	if err != nil {
		log.Printf("Error getting reward pool balance: %v", err)
		return decimal.Zero
	}
	return pool.Balance
}
