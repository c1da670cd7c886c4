package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAddUserScoreCreatesAndIncrements(t *testing.T) {
	db := setupTestDB(t)
	scores := NewScoreService(db)

	if got := scores.GetUserScore("user-1"); got != 0 {
		t.Errorf("unknown user score: expected 0, got %d", got)
	}

	if err := scores.AddUserScore("user-1", 1); err != nil {
		t.Fatalf("AddUserScore failed: %v", err)
	}
	if err := scores.AddUserScore("user-1", 2); err != nil {
		t.Fatalf("AddUserScore failed: %v", err)
	}

	if got := scores.GetUserScore("user-1"); got != 3 {
		t.Errorf("user score: expected 3, got %d", got)
	}

	if err := scores.AddUserScore("", 1); err == nil {
		t.Error("empty uid must be rejected")
	}
}

func TestAddRestaurantScore(t *testing.T) {
	db := setupTestDB(t)
	scores := NewScoreService(db)
	restaurant := createTestRestaurant(t, db, "Counter Cafe")

	if err := scores.AddRestaurantScore(restaurant.ID, 1); err != nil {
		t.Fatalf("AddRestaurantScore failed: %v", err)
	}
	if err := scores.AddRestaurantScore(restaurant.ID, 2); err != nil {
		t.Fatalf("AddRestaurantScore failed: %v", err)
	}

	if got := scores.GetRestaurantScore(restaurant.ID); got != 3 {
		t.Errorf("restaurant score: expected 3, got %d", got)
	}

	// Unknown restaurants have no implicit counter row.
	if err := scores.AddRestaurantScore("missing", 1); err == nil {
		t.Error("scoring an unknown restaurant must error")
	}
	if got := scores.GetRestaurantScore("missing"); got != 0 {
		t.Errorf("unknown restaurant score: expected 0, got %d", got)
	}
}

func TestCreditRewardPool(t *testing.T) {
	db := setupTestDB(t)
	scores := NewScoreService(db)

	if got := scores.RewardPoolBalance(); !got.IsZero() {
		t.Errorf("fresh pool balance: expected 0, got %s", got)
	}

	if err := scores.CreditRewardPool(decimal.NewFromFloat(0.5)); err != nil {
		t.Fatalf("CreditRewardPool failed: %v", err)
	}
	if err := scores.CreditRewardPool(decimal.NewFromFloat(1.25)); err != nil {
		t.Fatalf("CreditRewardPool failed: %v", err)
	}

	if got := scores.RewardPoolBalance(); !got.Equal(decimal.NewFromFloat(1.75)) {
		t.Errorf("pool balance: expected 1.75, got %s", got)
	}
}
