package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Restaurant represents a recommended restaurant.
//
// TotalScore and Balance are running counters shared by many concurrent
// writers. They must only ever be mutated through atomic increments
// (gorm.Expr("... + ?")), never by read-modify-write.
type Restaurant struct {
	ID         string          `gorm:"primaryKey;size:36" json:"id"`
	Name       string          `gorm:"size:200;not null" json:"name"`
	Address    string          `gorm:"size:500;not null" json:"address"`
	Latitude   float64         `gorm:"not null" json:"latitude"`
	Longitude  float64         `gorm:"not null" json:"longitude"`
	Photos     []string        `gorm:"serializer:json" json:"photos"`
	Dishes     []string        `gorm:"serializer:json" json:"dishes"`
	CreatedBy  string          `gorm:"size:64;not null;index" json:"created_by"`
	TotalScore int64           `gorm:"not null;default:0;index" json:"total_score"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,8);not null;default:0" json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Restaurant model
func (Restaurant) TableName() string {
	return "restaurants"
}
