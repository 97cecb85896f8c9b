package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index;not null" json:"business_id"`

	Title       string          `gorm:"size:100;not null" json:"title"`
	Description string          `gorm:"size:255" json:"description"`
	Cost        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"cost"`
	DurationMin int             `gorm:"not null" json:"duration_min"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
