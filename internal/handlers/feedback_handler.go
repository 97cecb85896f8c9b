package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/httpresp"
	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/validators"
)

type FeedbackHandler struct {
	db     *gorm.DB
	phones *validators.PhoneNormalizer
}

func NewFeedbackHandler(db *gorm.DB, phones *validators.PhoneNormalizer) *FeedbackHandler {
	return &FeedbackHandler{db: db, phones: phones}
}

type FeedbackRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email" binding:"omitempty,email"`
	ClientPhone string `json:"client_phone"`
	Complaint   string `json:"complaint" binding:"required"`
}

// Create é público (qualquer cliente do negócio).
func (h *FeedbackHandler) Create(c *gin.Context) {
	business, ok := businessBySlug(c, h.db)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	fb := models.Feedback{
		BusinessID:  business.ID,
		ClientName:  strings.TrimSpace(req.ClientName),
		ClientEmail: strings.ToLower(strings.TrimSpace(req.ClientEmail)),
		Complaint:   strings.TrimSpace(req.Complaint),
	}
	// telefone é opcional; guarda normalizado quando possível
	if req.ClientPhone != "" {
		fb.ClientPhone = h.phones.Normalize(req.ClientPhone)
		if fb.ClientPhone == "" {
			fb.ClientPhone = strings.TrimSpace(req.ClientPhone)
		}
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&fb).Error; err != nil {
		httperr.Internal(c, "failed_to_save_feedback", "Failed to save feedback")
		return
	}

	httpresp.Created(c, gin.H{"message": "Feedback received", "id": fb.ID})
}

func (h *FeedbackHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var items []models.Feedback
	if err := h.db.WithContext(c.Request.Context()).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {

		httperr.Internal(c, "failed_to_list_feedback", "Failed to list feedback")
		return
	}

	httpresp.List(c, items)
}
