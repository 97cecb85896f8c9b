package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/httpresp"
	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

// AdminHandler revisa os cadastros de negócio.
type AdminHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewAdminHandler(db *gorm.DB, audit *audit.Dispatcher) *AdminHandler {
	return &AdminHandler{db: db, audit: audit}
}

type ReviewRequest struct {
	Comment string `json:"comment"`
}

func (h *AdminHandler) ListBusinesses(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))

	q := h.db.WithContext(c.Request.Context()).Model(&models.Business{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var businesses []models.Business
	if err := q.Order("created_at DESC").Find(&businesses).Error; err != nil {
		httperr.Internal(c, "failed_to_list_businesses", "Failed to list businesses")
		return
	}

	httpresp.List(c, businesses)
}

func (h *AdminHandler) Approve(c *gin.Context) {
	h.review(c, models.BusinessApproved)
}

func (h *AdminHandler) Reject(c *gin.Context) {
	h.review(c, models.BusinessRejected)
}

func (h *AdminHandler) review(c *gin.Context, status string) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Invalid request body")
			return
		}
	}

	var business models.Business
	if err := h.db.WithContext(c.Request.Context()).First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "business_not_found", "Business not found")
			return
		}
		httperr.Respond(c, err)
		return
	}

	business.Status = status
	business.ReviewComment = strings.TrimSpace(req.Comment)

	if err := h.db.WithContext(c.Request.Context()).Save(&business).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Failed to update business")
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: business.ID,
		UserID:     &adminID,
		Action:     "business_" + status,
		Entity:     "business",
		EntityID:   &business.ID,
		Metadata:   gin.H{"comment": business.ReviewComment},
	})

	c.JSON(http.StatusOK, business)
}
