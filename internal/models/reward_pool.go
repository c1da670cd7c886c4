package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RewardPoolID is the fixed key of the singleton pool row.
const RewardPoolID = "main"

// RewardPool is the shared balance fed by the 5% payment skim.
// Mutated only via atomic increment.
type RewardPool struct {
	ID        string          `gorm:"primaryKey;size:20" json:"id"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,8);not null;default:0" json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for RewardPool model
func (RewardPool) TableName() string {
	return "reward_pool"
}
