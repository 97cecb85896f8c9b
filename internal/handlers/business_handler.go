package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

type BusinessHandler struct {
	db *gorm.DB
}

func NewBusinessHandler(db *gorm.DB) *BusinessHandler {
	return &BusinessHandler{db: db}
}

type UpdateBusinessRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Address  *string `json:"address"`
	Timezone *string `json:"timezone"`
}

func (h *BusinessHandler) load(c *gin.Context) (*models.Business, bool) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var business models.Business
	if err := h.db.WithContext(c.Request.Context()).First(&business, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "business_not_found", "Business not found")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_business", "Failed to load business")
		return nil, false
	}
	return &business, true
}

func (h *BusinessHandler) GetMeBusiness(c *gin.Context) {
	business, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, business)
}

// UpdateMeBusiness não mexe em slug nem status (status é do admin).
func (h *BusinessHandler) UpdateMeBusiness(c *gin.Context) {
	business, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Name cannot be empty")
			return
		}
		business.Name = name
	}
	if req.Phone != nil {
		business.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		business.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Address != nil {
		business.Address = strings.TrimSpace(*req.Address)
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone")
			return
		}
		business.Timezone = *req.Timezone
	}

	if err := h.db.WithContext(c.Request.Context()).Save(business).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Failed to save business")
		return
	}

	c.JSON(http.StatusOK, business)
}
