package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/httpresp"
	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	DurationMin int              `json:"duration_min" binding:"required,min=1"`
	Cost        *decimal.Decimal `json:"cost" binding:"required"`
}

type UpdateServiceRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	DurationMin *int             `json:"duration_min,omitempty" binding:"omitempty,min=1"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("business_id = ?", businessID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Failed to list services")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Cost.IsNegative() {
		httperr.BadRequest(c, "invalid_cost", "Cost cannot be negative")
		return
	}

	service := models.Service{
		BusinessID:  businessID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DurationMin: req.DurationMin,
		Cost:        req.Cost.Round(2),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Failed to create service")
		return
	}

	httpresp.Created(c, service)
}

func (h *ServiceHandler) find(c *gin.Context) (*models.Service, bool) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Service not found")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_service", "Failed to load service")
		return nil, false
	}
	return &service, true
}

func (h *ServiceHandler) Update(c *gin.Context) {
	service, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Title != nil {
		service.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			httperr.BadRequest(c, "invalid_cost", "Cost cannot be negative")
			return
		}
		service.Cost = req.Cost.Round(2)
	}

	if err := h.db.WithContext(c.Request.Context()).Save(service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// Delete remove o serviço; agendamentos antigos passam a exibir o
// serviço como desconhecido e ele sai dos ganhos.
func (h *ServiceHandler) Delete(c *gin.Context) {
	service, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(service).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service", "Failed to delete service")
		return
	}

	c.Status(http.StatusNoContent)
}
