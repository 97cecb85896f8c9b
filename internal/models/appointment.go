package models

import (
	"time"

	"gorm.io/datatypes"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint     `gorm:"index;not null" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone string `gorm:"size:20;index;not null" json:"client_phone"`
	ClientEmail string `gorm:"size:100" json:"client_email"`

	// nulos enquanto o cliente só enviou os dados pessoais
	StartTime *time.Time `gorm:"type:timestamptz;index" json:"start_time"`
	EndTime   *time.Time `gorm:"type:timestamptz" json:"end_time"`

	Services        datatypes.JSONSlice[LineItem] `gorm:"type:jsonb" json:"services"`
	TotalServiceMin int                           `json:"total_service_min"`
	NumServices     int                           `json:"num_services"` // linhas distintas, não soma das quantidades

	Status string `gorm:"size:30;index;default:'pending'" json:"status"`

	RejectionReason    string `gorm:"size:255" json:"rejection_reason,omitempty"`
	ReportDetails      string `gorm:"size:255" json:"report_details,omitempty"`
	CancellationReason string `gorm:"size:255" json:"cancellation_reason,omitempty"`

	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	ArrivedAt   *time.Time `json:"arrived_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) HasSchedule() bool {
	return a.StartTime != nil && a.EndTime != nil
}
