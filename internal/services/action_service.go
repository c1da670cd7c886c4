package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pieats/internal/models"
)

// actionNamespace seeds the deterministic dedup keys. Changing it would
// re-open every historical (user, restaurant, type) slot, so it is fixed.
var actionNamespace = uuid.MustParse("7f1ed63d-6f8b-4a59-9d2c-35c0a4f2e8b1")

// ActionService is the ledger of one-time user/restaurant actions. It is the
// anti-fraud boundary: social actions score at most once per
// (user, restaurant, type), payments score at most once per 24 hours.
type ActionService struct {
	db     *gorm.DB
	scores *ScoreService
}

// NewActionService creates a new ActionService
func NewActionService(db *gorm.DB, scores *ScoreService) *ActionService {
	return &ActionService{db: db, scores: scores}
}

// HasActioned reports whether the user already performed this action on this
// restaurant. Store failure is absorbed: this gates a best-effort duplicate
// check, and the unique dedup key still holds the line on the write path.
func (s *ActionService) HasActioned(uid, restaurantID string, actionType models.ActionType) bool {
	var count int64
	err := s.db.Model(&models.UserAction{}).
		Where("user_id = ? AND restaurant_id = ? AND action_type = ?", uid, restaurantID, actionType).
		Count(&count).Error
	if err != nil {
		log.Printf("Error checking user action: %v", err)
		return false
	}
	return count > 0
}

// RecordAndScore appends the action and scores it, unless the user already
// performed it. Returns (false, nil) for duplicates with no side effects;
// write failures propagate so callers never show a false success state.
func (s *ActionService) RecordAndScore(uid, restaurantID string, actionType models.ActionType, points int) (bool, error) {
	if strings.TrimSpace(uid) == "" {
		return false, fmt.Errorf("invalid uid: must be a non-empty string")
	}
	if strings.TrimSpace(restaurantID) == "" {
		return false, fmt.Errorf("invalid restaurant id: must be a non-empty string")
	}
	if !actionType.Valid() {
		return false, fmt.Errorf("unknown action type %q", actionType)
	}

	if s.HasActioned(uid, restaurantID, actionType) && actionType != models.ActionPayment {
		return false, nil
	}

	action := models.UserAction{
		ID:           uuid.NewString(),
		DedupKey:     dedupKey(uid, restaurantID, actionType),
		UserID:       uid,
		RestaurantID: restaurantID,
		ActionType:   actionType,
		CreatedAt:    time.Now(),
	}

	err := s.db.Create(&action).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race against a concurrent identical action. The store's
		// uniqueness already recorded the winner, so this request is a no-op.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to record action: %w", err)
	}

	if err := s.scores.AddUserScore(uid, points); err != nil {
		return false, fmt.Errorf("action recorded but user score update failed: %w", err)
	}
	if err := s.scores.AddRestaurantScore(restaurantID, points); err != nil {
		return false, fmt.Errorf("action recorded but restaurant score update failed: %w", err)
	}

	return true, nil
}

// HasPaidWithinWindow reports whether the user has a payment action newer
// than the window. Store failure is absorbed and reads as "not paid".
func (s *ActionService) HasPaidWithinWindow(uid string, window time.Duration) bool {
	cutoff := time.Now().Add(-window)

	var count int64
	err := s.db.Model(&models.UserAction{}).
		Where("user_id = ? AND action_type = ? AND created_at > ?", uid, models.ActionPayment, cutoff).
		Count(&count).Error
	if err != nil {
		log.Printf("Error checking payment history: %v", err)
		return false
	}
	return count > 0
}

// UserActions returns all ledger entries for a user, optionally scoped to a
// restaurant.
func (s *ActionService) UserActions(uid, restaurantID string) ([]models.UserAction, error) {
	query := s.db.Where("user_id = ?", uid)
	if restaurantID != "" {
		query = query.Where("restaurant_id = ?", restaurantID)
	}

	var actions []models.UserAction
	if err := query.Order("created_at ASC").Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("failed to load user actions: %w", err)
	}
	return actions, nil
}

// dedupKey derives the ledger uniqueness key. Social action types map to a
// deterministic UUID so the database enforces once-per-triple; payment
// actions may repeat and get a random key.
func dedupKey(uid, restaurantID string, actionType models.ActionType) string {
	if actionType == models.ActionPayment {
		return uuid.NewString()
	}
	name := uid + "|" + restaurantID + "|" + string(actionType)
	return uuid.NewSHA1(actionNamespace, []byte(name)).String()
}
