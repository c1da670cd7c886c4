package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"pieats/internal/models"
)

func TestRecordAndScoreDeduplicates(t *testing.T) {
	db := setupTestDB(t)
	scores := NewScoreService(db)
	service := NewActionService(db, scores)

	restaurant := createTestRestaurant(t, db, "Dedup Diner")

	recorded, err := service.RecordAndScore("user-1", restaurant.ID, models.ActionLike, 1)
	if err != nil {
		t.Fatalf("RecordAndScore failed: %v", err)
	}
	if !recorded {
		t.Fatal("first like should score")
	}

	// Same (user, restaurant, type) again: no-op, no score change.
	recorded, err = service.RecordAndScore("user-1", restaurant.ID, models.ActionLike, 1)
	if err != nil {
		t.Fatalf("RecordAndScore failed: %v", err)
	}
	if recorded {
		t.Error("duplicate like must not score")
	}

	if got := scores.GetUserScore("user-1"); got != 1 {
		t.Errorf("user score: expected 1, got %d", got)
	}
	if got := scores.GetRestaurantScore(restaurant.ID); got != 1 {
		t.Errorf("restaurant score: expected 1, got %d", got)
	}

	var count int64
	db.Model(&models.UserAction{}).Count(&count)
	if count != 1 {
		t.Errorf("ledger entries: expected 1, got %d", count)
	}
}

func TestRecordAndScoreDistinctTypesAllScore(t *testing.T) {
	db := setupTestDB(t)
	scores := NewScoreService(db)
	service := NewActionService(db, scores)

	restaurant := createTestRestaurant(t, db, "Variety Kitchen")

	for _, actionType := range []models.ActionType{
		models.ActionLike, models.ActionRating, models.ActionComment, models.ActionTip,
	} {
		recorded, err := service.RecordAndScore("user-1", restaurant.ID, actionType, actionType.Points())
		if err != nil {
			t.Fatalf("RecordAndScore(%s) failed: %v", actionType, err)
		}
		if !recorded {
			t.Errorf("%s should score on first use", actionType)
		}
	}

	if got := scores.GetUserScore("user-1"); got != 4 {
		t.Errorf("user score: expected 4, got %d", got)
	}
}

func TestRecordAndScorePaymentsRepeat(t *testing.T) {
	db := setupTestDB(t)
	scores := NewScoreService(db)
	service := NewActionService(db, scores)

	restaurant := createTestRestaurant(t, db, "Repeat Eats")

	for i := 0; i < 3; i++ {
		recorded, err := service.RecordAndScore("user-1", restaurant.ID, models.ActionPayment, 2)
		if err != nil {
			t.Fatalf("RecordAndScore failed: %v", err)
		}
		if !recorded {
			t.Errorf("payment %d should score", i+1)
		}
	}

	if got := scores.GetUserScore("user-1"); got != 6 {
		t.Errorf("user score: expected 6, got %d", got)
	}
}

func TestRecordAndScoreRejectsUnknownType(t *testing.T) {
	db := setupTestDB(t)
	service := NewActionService(db, NewScoreService(db))

	if _, err := service.RecordAndScore("user-1", "restaurant-1", "applause", 1); err == nil {
		t.Error("unknown action type must be rejected")
	}
	if _, err := service.RecordAndScore("", "restaurant-1", models.ActionLike, 1); err == nil {
		t.Error("empty uid must be rejected")
	}
	if _, err := service.RecordAndScore("user-1", "", models.ActionLike, 1); err == nil {
		t.Error("empty restaurant id must be rejected")
	}
}

func TestHasActioned(t *testing.T) {
	db := setupTestDB(t)
	service := NewActionService(db, NewScoreService(db))

	restaurant := createTestRestaurant(t, db, "Check Cafe")

	if service.HasActioned("user-1", restaurant.ID, models.ActionComment) {
		t.Error("no action recorded yet")
	}

	if _, err := service.RecordAndScore("user-1", restaurant.ID, models.ActionComment, 1); err != nil {
		t.Fatalf("RecordAndScore failed: %v", err)
	}

	if !service.HasActioned("user-1", restaurant.ID, models.ActionComment) {
		t.Error("comment should be visible")
	}
	if service.HasActioned("user-1", restaurant.ID, models.ActionLike) {
		t.Error("different type must not match")
	}
	if service.HasActioned("user-2", restaurant.ID, models.ActionComment) {
		t.Error("different user must not match")
	}
}

func TestHasPaidWithinWindow(t *testing.T) {
	db := setupTestDB(t)
	service := NewActionService(db, NewScoreService(db))

	if service.HasPaidWithinWindow("user-1", 24*time.Hour) {
		t.Error("no payments yet")
	}

	// Payment 25 hours ago: outside the window.
	old := models.UserAction{
		ID:           uuid.NewString(),
		DedupKey:     uuid.NewString(),
		UserID:       "user-1",
		RestaurantID: "restaurant-1",
		ActionType:   models.ActionPayment,
		CreatedAt:    time.Now().Add(-25 * time.Hour),
	}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("failed to seed action: %v", err)
	}

	if service.HasPaidWithinWindow("user-1", 24*time.Hour) {
		t.Error("payment 25h ago is outside the 24h window")
	}

	// Payment 1 hour ago: inside the window.
	recent := models.UserAction{
		ID:           uuid.NewString(),
		DedupKey:     uuid.NewString(),
		UserID:       "user-1",
		RestaurantID: "restaurant-1",
		ActionType:   models.ActionPayment,
		CreatedAt:    time.Now().Add(-time.Hour),
	}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatalf("failed to seed action: %v", err)
	}

	if !service.HasPaidWithinWindow("user-1", 24*time.Hour) {
		t.Error("payment 1h ago is inside the 24h window")
	}

	// A non-payment action never counts toward the window.
	if service.HasPaidWithinWindow("user-2", 24*time.Hour) {
		t.Error("other users unaffected")
	}
}

func TestDedupKeyDeterminism(t *testing.T) {
	a := dedupKey("user-1", "restaurant-1", models.ActionLike)
	b := dedupKey("user-1", "restaurant-1", models.ActionLike)
	if a != b {
		t.Errorf("social dedup key must be deterministic: %s != %s", a, b)
	}

	if dedupKey("user-1", "restaurant-1", models.ActionRating) == a {
		t.Error("different types must produce different keys")
	}

	if dedupKey("user-1", "restaurant-1", models.ActionPayment) == dedupKey("user-1", "restaurant-1", models.ActionPayment) {
		t.Error("payment keys must not collide")
	}
}
