package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// ClientSummary agrega os agendamentos por telefone.
type ClientSummary struct {
	ClientPhone   string    `json:"client_phone"`
	ClientName    string    `json:"client_name"`
	ClientEmail   string    `json:"client_email"`
	Appointments  int64     `json:"appointments"`
	LastBookingAt time.Time `json:"last_booking_at"`
}

// ======================================================
// LIST CLIENTS (DONO)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Appointment{}).
		Select(`client_phone,
			MAX(client_name) AS client_name,
			MAX(client_email) AS client_email,
			COUNT(*) AS appointments,
			MAX(created_at) AS last_booking_at`).
		Where("business_id = ?", businessID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(client_name) LIKE ? OR client_phone LIKE ? OR LOWER(client_email) LIKE ?",
			like, like, like,
		)
	}

	var clients []ClientSummary
	if err := q.
		Group("client_phone").
		Order("last_booking_at DESC").
		Scan(&clients).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed_to_list_clients",
		})
		return
	}

	c.JSON(http.StatusOK, clients)
}
