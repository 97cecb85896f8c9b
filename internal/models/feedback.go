package models

import "time"

type Feedback struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index;not null" json:"business_id"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientEmail string `gorm:"size:100" json:"client_email"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`
	Complaint   string `gorm:"type:text;not null" json:"complaint"`

	CreatedAt time.Time `json:"created_at"`
}
