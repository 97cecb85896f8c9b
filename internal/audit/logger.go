package audit

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-platform/internal/models"
)

// Logger grava eventos na tabela audit_logs.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func toRecord(ev Event) models.AuditLog {
	rec := models.AuditLog{
		BusinessID: ev.BusinessID,
		UserID:     ev.UserID,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
	}
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			rec.Metadata = datatypes.JSON(b)
		}
	}
	return rec
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	rec := toRecord(ev)
	return l.db.WithContext(ctx).Create(&rec).Error
}

var _ Writer = (*Logger)(nil)
