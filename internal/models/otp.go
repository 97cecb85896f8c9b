package models

import "time"

type OTP struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Phone   string `gorm:"size:20;index:idx_otp_phone_purpose;not null" json:"phone"`
	Purpose string `gorm:"size:20;index:idx_otp_phone_purpose;not null" json:"purpose"`
	Code    string `gorm:"size:10;not null" json:"-"`

	// nil = não expira (OTP de chegada)
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (o *OTP) Expired(now time.Time) bool {
	return o.ExpiresAt != nil && !now.Before(*o.ExpiresAt)
}
