package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, audit: audit}
}

// Dia inativo (ou ausente) = fechado; não vira linha no banco.
type WorkingDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Active    bool   `json:"active"`
	StartTime string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime   string `json:"end_time" binding:"omitempty,hhmm"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("business_id = ?", businessID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "Failed to load working hours")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update substitui a semana inteira numa transação.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	seen := make(map[int]bool, len(req.Days))
	var toCreate []models.WorkingHours

	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "Each weekday can appear only once")
			return
		}
		seen[d.Weekday] = true

		if !d.Active {
			continue
		}

		wh := models.WorkingHours{
			BusinessID: businessID,
			Weekday:    d.Weekday,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
		}
		if err := domain.ValidateWorkingHours(&wh); err != nil {
			httperr.Respond(c, err)
			return
		}
		toCreate = append(toCreate, wh)
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", businessID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Failed to save working hours")
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     "working_hours_updated",
		Entity:     "working_hours",
		Metadata:   gin.H{"active_days": len(toCreate)},
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok", "days": toCreate})
}
