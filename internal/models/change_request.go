package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ChangeRequestPending  = "pending"
	ChangeRequestApproved = "approved"
)

type ChangeRequest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint        `gorm:"index;not null" json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ClientName  string `gorm:"size:100" json:"client_name"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`
	ClientEmail string `gorm:"size:100" json:"client_email"`

	// horário de parede do negócio, sem fuso; localizado ao aprovar
	RequestedStart time.Time `gorm:"type:timestamp;not null" json:"requested_start"`
	RequestedEnd   time.Time `gorm:"type:timestamp;not null" json:"requested_end"`

	RequestedServices    datatypes.JSONSlice[LineItem] `gorm:"type:jsonb" json:"requested_services"`
	RequestedTotalMin    int                           `json:"requested_total_min"`
	RequestedNumServices int                           `json:"requested_num_services"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
