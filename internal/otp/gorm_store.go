package otp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-platform/internal/models"
)

// GormStore persiste os códigos na tabela otps. O "último" é resolvido
// por ORDER BY explícito, nunca pela ordem física.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, o *models.OTP) error {
	return s.db.WithContext(ctx).Create(o).Error
}

func (s *GormStore) LatestRecord(ctx context.Context, purpose Purpose, phone string) (*models.OTP, error) {
	var o models.OTP
	err := s.db.WithContext(ctx).
		Where("phone = ? AND purpose = ?", phone, string(purpose)).
		Order("created_at DESC").
		Order("id DESC").
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *GormStore) Save(ctx context.Context, purpose Purpose, phone, code string, ttl time.Duration) error {
	o := &models.OTP{Phone: phone, Purpose: string(purpose), Code: code}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		o.ExpiresAt = &exp
	}
	return s.Create(ctx, o)
}

func (s *GormStore) Latest(ctx context.Context, purpose Purpose, phone string) (string, error) {
	o, err := s.LatestRecord(ctx, purpose, phone)
	if err != nil {
		return "", err
	}
	if o.Expired(time.Now()) {
		return "", ErrNotFound
	}
	return o.Code, nil
}

func (s *GormStore) Consume(ctx context.Context, purpose Purpose, phone string) error {
	return s.db.WithContext(ctx).
		Where("phone = ? AND purpose = ?", phone, string(purpose)).
		Delete(&models.OTP{}).Error
}

var _ Store = (*GormStore)(nil)
