package models

import (
	"time"
)

// UserScore is the cached running total of a user's points across all
// restaurants. It is maintained alongside the action ledger; reward
// computation re-derives scores from the ledger and never reads this cache.
type UserScore struct {
	UID           string    `gorm:"primaryKey;size:64" json:"uid"`
	Score         int64     `gorm:"not null;default:0" json:"score"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// TableName specifies the table name for UserScore model
func (UserScore) TableName() string {
	return "scores"
}
