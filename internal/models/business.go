package models

import "time"

const (
	BusinessPending  = "pending"
	BusinessApproved = "approved"
	BusinessRejected = "rejected"
)

type Business struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:100" json:"email"`
	Address  string `gorm:"size:255" json:"address"`
	Timezone string `gorm:"size:64;not null;default:'Europe/Moscow'" json:"timezone"`

	// Cadastro passa pela revisão do admin antes de aparecer publicamente
	Status        string `gorm:"size:20;not null;default:'pending'" json:"status"`
	ReviewComment string `gorm:"size:255" json:"review_comment,omitempty"`

	Services []Service `gorm:"foreignKey:BusinessID" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Business) IsApproved() bool {
	return b.Status == BusinessApproved
}
