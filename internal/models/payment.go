package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment record.
// pending is the only non-terminal state; completed and failed are absorbing.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentRecord tracks one Pi payment from a user to a restaurant.
// RestaurantAmount (95%) and PoolAmount (5%) are fixed at creation so that
// completion credits exactly what was quoted, whatever the split factor is
// when the lifecycle finishes.
type PaymentRecord struct {
	ID               string          `gorm:"primaryKey;size:36" json:"id"`
	UserID           string          `gorm:"size:64;not null;index" json:"user_id"`
	RestaurantID     string          `gorm:"size:36;not null;index" json:"restaurant_id"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,8);not null" json:"amount"`
	RestaurantAmount decimal.Decimal `gorm:"type:decimal(18,8);not null" json:"restaurant_amount"`
	PoolAmount       decimal.Decimal `gorm:"type:decimal(18,8);not null" json:"pool_amount"`
	PaymentID        string          `gorm:"size:100;index" json:"payment_id"`
	TxID             string          `gorm:"size:100" json:"txid,omitempty"`
	Status           PaymentStatus   `gorm:"size:20;not null;default:pending;index" json:"status"`
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
}

// TableName specifies the table name for PaymentRecord model
func (PaymentRecord) TableName() string {
	return "payments"
}
