package models

import (
	"time"
)

// ActionType is one of the closed set of user engagements that earn points.
type ActionType string

const (
	ActionRecommend ActionType = "recommend"
	ActionLike      ActionType = "like"
	ActionRating    ActionType = "rating"
	ActionComment   ActionType = "comment"
	ActionTip       ActionType = "tip"
	ActionPayment   ActionType = "payment"
)

// Valid reports whether the action type belongs to the closed set.
func (t ActionType) Valid() bool {
	switch t {
	case ActionRecommend, ActionLike, ActionRating, ActionComment, ActionTip, ActionPayment:
		return true
	}
	return false
}

// Points returns the score value of a single action of this type.
func (t ActionType) Points() int {
	if t == ActionPayment {
		return 2
	}
	return 1
}

// UserAction is an immutable fact: a user performed an action on a restaurant.
// DedupKey is deterministic for the non-payment types, so the unique index
// enforces at most one action per (user, restaurant, type) at the store level.
// Payment actions carry a random key and may repeat.
type UserAction struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	DedupKey     string     `gorm:"uniqueIndex;size:36;not null" json:"-"`
	UserID       string     `gorm:"size:64;not null;index:idx_user_restaurant" json:"user_id"`
	RestaurantID string     `gorm:"size:36;not null;index:idx_user_restaurant" json:"restaurant_id"`
	ActionType   ActionType `gorm:"size:20;not null;index" json:"action_type"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for UserAction model
func (UserAction) TableName() string {
	return "user_actions"
}
