package services

import (
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pieats/internal/models"
)

// DefaultLeaderboardSize is how many restaurants a leaderboard shows.
const DefaultLeaderboardSize = 10

// LeaderboardEntry is a ranked restaurant with the value it was ranked by.
type LeaderboardEntry struct {
	Restaurant models.Restaurant `json:"restaurant"`
	Rank       int               `json:"rank"`
	Value      decimal.Decimal   `json:"value"`
}

// LeaderboardService builds read-only projections over restaurant scores and
// pool contributions. Failures are absorbed into empty boards so the
// presentation layer always has something to render.
type LeaderboardService struct {
	db *gorm.DB
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// TopByScore returns up to n restaurants ordered by total score descending,
// ranked 1..len.
func (s *LeaderboardService) TopByScore(n int) []LeaderboardEntry {
	if n <= 0 {
		n = DefaultLeaderboardSize
	}

	var restaurants []models.Restaurant
	err := s.db.Order("total_score DESC").Limit(n).Find(&restaurants).Error
	if err != nil {
		log.Printf("Error building score leaderboard: %v", err)
		return []LeaderboardEntry{}
	}

	entries := make([]LeaderboardEntry, 0, len(restaurants))
	for i, restaurant := range restaurants {
		entries = append(entries, LeaderboardEntry{
			Restaurant: restaurant,
			Rank:       i + 1,
			Value:      decimal.NewFromInt(restaurant.TotalScore),
		})
	}
	return entries
}

// TopByPoolContribution ranks restaurants by the pool skim their completed
// payments have contributed. Restaurants with no completed payments never
// appear.
func (s *LeaderboardService) TopByPoolContribution(n int) []LeaderboardEntry {
	if n <= 0 {
		n = DefaultLeaderboardSize
	}

	var contributions []struct {
		RestaurantID string
		Total        decimal.Decimal
	}
	err := s.db.Model(&models.PaymentRecord{}).
		Select("restaurant_id, SUM(pool_amount) AS total").
		Where("status = ?", models.PaymentCompleted).
		Group("restaurant_id").
		Order("total DESC").
		Limit(n).
		Scan(&contributions).Error
	if err != nil {
		log.Printf("Error building pool contribution leaderboard: %v", err)
		return []LeaderboardEntry{}
	}

	entries := make([]LeaderboardEntry, 0, len(contributions))
	for _, contribution := range contributions {
		var restaurant models.Restaurant
		if err := s.db.Where("id = ?", contribution.RestaurantID).First(&restaurant).Error; err != nil {
			log.Printf("Error resolving restaurant %s for leaderboard: %v", contribution.RestaurantID, err)
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Restaurant: restaurant,
			Rank:       len(entries) + 1,
			Value:      contribution.Total,
		})
	}
	return entries
}
