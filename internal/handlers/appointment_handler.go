package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/booking-platform/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	transition  *ucAppointment.Transition
	listByDate  *ucAppointment.ListAppointmentsByDate
	listByMonth *ucAppointment.ListAppointmentsByMonth
	clock       timezone.Clock
}

func NewAppointmentHandler(
	transition *ucAppointment.Transition,
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
	clock timezone.Clock,
) *AppointmentHandler {
	return &AppointmentHandler{
		transition:  transition,
		listByDate:  listByDate,
		listByMonth: listByMonth,
		clock:       clock,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AppointmentActionRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details"`
	OTP     string `json:"otp"`
}

// ======================================================
// ACTION (accept | reject | report | arrived | paid)
// ======================================================

func (h *AppointmentHandler) Action(c *gin.Context) {
	// ação inválida responde 400 antes de qualquer leitura
	action, err := domain.ParseOwnerAction(c.Param("action"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AppointmentActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Invalid request body")
			return
		}
	}

	res, err := h.transition.Execute(c.Request.Context(), ucAppointment.TransitionInput{
		BusinessID:    c.MustGet(middleware.ContextBusinessID).(uint),
		UserID:        c.MustGet(middleware.ContextUserID).(uint),
		AppointmentID: id,
		Action:        action,
		Reason:        req.Reason,
		Details:       req.Details,
		OTP:           req.OTP,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		dateStr = h.clock.Now().Format(timezone.DateLayout)
	}

	// o use case ancora o dia no fuso do negócio
	date, err := time.Parse(timezone.DateLayout, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD")
		return
	}

	appointments, err := h.listByDate.Execute(c.Request.Context(), businessID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         dateStr,
		"appointments": appointments,
	})
}

// ======================================================
// LIST BY MONTH
// ======================================================

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Year and month are required")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Invalid month")
		return
	}

	appointments, err := h.listByMonth.Execute(c.Request.Context(), businessID, year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": appointments,
	})
}
