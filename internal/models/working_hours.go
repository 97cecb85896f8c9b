package models

import "time"

type WorkingHours struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"uniqueIndex:idx_working_hours_business_weekday;not null" json:"business_id"`

	// 0 = domingo ... 6 = sábado (time.Weekday)
	Weekday int `gorm:"uniqueIndex:idx_working_hours_business_weekday;not null" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
