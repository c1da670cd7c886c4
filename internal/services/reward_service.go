package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pieats/internal/models"
)

// distributableShare is the fraction of the pool paid out to users; the rest
// stays with the platform.
var distributableShare = decimal.NewFromFloat(0.9)

// RewardService derives reward estimates from the immutable action ledger.
// Per-restaurant user scores are always replayed from the ledger, never read
// from the cached global score, so they reflect the deduplicated truth.
type RewardService struct {
	db     *gorm.DB
	scores *ScoreService
}

// NewRewardService creates a new RewardService
func NewRewardService(db *gorm.DB, scores *ScoreService) *RewardService {
	return &RewardService{db: db, scores: scores}
}

// UserRestaurantScore replays the user's ledger entries at one restaurant.
// Read failure is absorbed as 0.
func (s *RewardService) UserRestaurantScore(uid, restaurantID string) int64 {
	var actions []models.UserAction
	err := s.db.Where("user_id = ? AND restaurant_id = ?", uid, restaurantID).Find(&actions).Error
	if err != nil {
		log.Printf("Error loading actions for %s at %s: %v", uid, restaurantID, err)
		return 0
	}

	var total int64
	for _, action := range actions {
		total += int64(action.ActionType.Points())
	}
	return total
}

// UserReward estimates the user's share of the pool at one restaurant:
// (user score / restaurant total score) * (pool balance * 0.9).
// Zero when the restaurant has no score at all.
func (s *RewardService) UserReward(uid, restaurantID string) decimal.Decimal {
	restaurantScore := s.scores.GetRestaurantScore(restaurantID)
	if restaurantScore == 0 {
		return decimal.Zero
	}

	userScore := s.UserRestaurantScore(uid, restaurantID)
	pool := s.scores.RewardPoolBalance()

	return decimal.NewFromInt(userScore).
		Mul(pool.Mul(distributableShare)).
		Div(decimal.NewFromInt(restaurantScore))
}

// UserTotalReward sums the user's estimated reward across every restaurant
// they have acted on. Each term reads live scores and the live pool, so the
// sum can overstate what a snapshot distribution would pay.
func (s *RewardService) UserTotalReward(uid string) decimal.Decimal {
	var restaurantIDs []string
	err := s.db.Model(&models.UserAction{}).
		Where("user_id = ?", uid).
		Distinct("restaurant_id").
		Pluck("restaurant_id", &restaurantIDs).Error
	if err != nil {
		log.Printf("Error loading restaurants for %s: %v", uid, err)
		return decimal.Zero
	}

	total := decimal.Zero
	for _, restaurantID := range restaurantIDs {
		total = total.Add(s.UserReward(uid, restaurantID))
	}
	return total
}

// DistributionShare is one user's computed payout in an annual distribution.
type DistributionShare struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// ComputeAnnualDistribution replays the full ledger in one pass against a
// single pool snapshot and returns each user's final distributable amount.
// It computes only; transferring funds and zeroing the pool are not wired.
func (s *RewardService) ComputeAnnualDistribution() ([]DistributionShare, error) {
	pool := s.scores.RewardPoolBalance()
	distribution := pool.Mul(distributableShare)

	var actions []models.UserAction
	if err := s.db.Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("failed to load action ledger: %w", err)
	}

	userRestaurantScores := make(map[string]map[string]int64)
	restaurantTotals := make(map[string]int64)

	for _, action := range actions {
		points := int64(action.ActionType.Points())
		if userRestaurantScores[action.UserID] == nil {
			userRestaurantScores[action.UserID] = make(map[string]int64)
		}
		userRestaurantScores[action.UserID][action.RestaurantID] += points
		restaurantTotals[action.RestaurantID] += points
	}

	var shares []DistributionShare
	for userID, perRestaurant := range userRestaurantScores {
		amount := decimal.Zero
		for restaurantID, score := range perRestaurant {
			total := restaurantTotals[restaurantID]
			if total == 0 {
				continue
			}
			amount = amount.Add(
				decimal.NewFromInt(score).
					Mul(distribution).
					Div(decimal.NewFromInt(total)))
		}
		if amount.IsPositive() {
			shares = append(shares, DistributionShare{UserID: userID, Amount: amount})
		}
	}

	sort.Slice(shares, func(i, j int) bool {
		return shares[i].UserID < shares[j].UserID
	})

	return shares, nil
}

// WithinRewardPeriod reports whether t falls in the current reward year
// (Jan 1 through Dec 31).
func WithinRewardPeriod(t time.Time) bool {
	start, end := RewardYearRange(t)
	return !t.Before(start) && !t.After(end)
}

// RewardYearRange returns the bounds of the reward year containing t.
func RewardYearRange(t time.Time) (time.Time, time.Time) {
	year := t.Year()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, t.Location())
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, t.Location())
	return start, end
}
