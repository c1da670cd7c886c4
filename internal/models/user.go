package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a Pi Network user, keyed by their wallet UID
type User struct {
	UID         string          `gorm:"primaryKey;size:64" json:"uid"`
	Username    string          `gorm:"size:100;not null" json:"username"`
	AvatarURL   string          `gorm:"size:500" json:"avatar_url,omitempty"`
	PiBalance   decimal.Decimal `gorm:"type:decimal(18,8);default:0" json:"pi_balance"`
	LastLoginAt time.Time       `json:"last_login_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
