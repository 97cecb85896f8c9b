package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/booking-platform/internal/usecase/appointment"
	ucChangeRequest "github.com/BruksfildServices01/booking-platform/internal/usecase/changerequest"
	ucVerification "github.com/BruksfildServices01/booking-platform/internal/usecase/verification"
	"github.com/BruksfildServices01/booking-platform/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicUseCases struct {
	Availability      *ucAppointment.GetAvailability
	RequestOTP        *ucVerification.RequestOTP
	VerifyOTP         *ucVerification.VerifyOTP
	ClientDetails     *ucAppointment.SubmitClientDetails
	Reserve           *ucAppointment.Reserve
	ClientAppointment *ucAppointment.GetClientAppointment
	ChangeRequest     *ucChangeRequest.Submit
	Cancel            *ucAppointment.CancelAppointment
}

type PublicHandler struct {
	db     *gorm.DB
	uc     PublicUseCases
	phones *validators.PhoneNormalizer
	clock  timezone.Clock
}

func NewPublicHandler(
	db *gorm.DB,
	uc PublicUseCases,
	phones *validators.PhoneNormalizer,
	clock timezone.Clock,
) *PublicHandler {
	return &PublicHandler{
		db:     db,
		uc:     uc,
		phones: phones,
		clock:  clock,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type OTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type OTPVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type ClientDetailsRequest struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email" binding:"omitempty,email"`
}

type ReserveRequest struct {
	ClientName  string            `json:"client_name"`
	ClientEmail string            `json:"client_email" binding:"omitempty,email"`
	Date        string            `json:"date"` // YYYY-MM-DD ou "YYYY-MM-DD HH:MM"
	Time        string            `json:"time"` // HH:MM
	Services    []models.LineItem `json:"services"`
}

type ChangeRequestRequest struct {
	AppointmentID uint              `json:"appointment_id" binding:"required"`
	ClientName    string            `json:"client_name"`
	ClientEmail   string            `json:"client_email" binding:"omitempty,email"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Services      []models.LineItem `json:"services"`
}

type CancelRequest struct {
	AppointmentID uint   `json:"appointment_id" binding:"required"`
	Phone         string `json:"phone"`
	OTP           string `json:"otp"`
	Reason        string `json:"reason"`
}

////////////////////////////////////////////////////////
// HELPERS
////////////////////////////////////////////////////////

// businessBySlug só enxerga negócios aprovados.
func businessBySlug(c *gin.Context, db *gorm.DB) (*models.Business, bool) {
	var business models.Business
	err := db.WithContext(c.Request.Context()).
		Where("slug = ? AND status = ?", c.Param("slug"), models.BusinessApproved).
		First(&business).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "business_not_found", "Business not found")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &business, true
}

// verifiedPhone devolve o telefone do token, desde que emitido para este negócio.
func verifiedPhone(c *gin.Context, business *models.Business) (string, bool) {
	if c.GetUint(middleware.ContextPhoneBusinessID) != business.ID {
		httperr.Unauthorized(c, "invalid_phone_token", "Phone verification belongs to another business")
		return "", false
	}
	return c.GetString(middleware.ContextPhone), true
}

func (h *PublicHandler) normalizePhone(c *gin.Context, raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		httperr.BadRequest(c, "missing_phone", "Phone number is required")
		return "", false
	}
	phone := h.phones.Normalize(raw)
	if phone == "" {
		httperr.BadRequest(c, "invalid_phone", "Invalid phone number")
		return "", false
	}
	return phone, true
}

////////////////////////////////////////////////////////
// SHOP DATA
////////////////////////////////////////////////////////

func (h *PublicHandler) Data(c *gin.Context) {
	business, ok := businessBySlug(c, h.db)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("business_id = ?", business.ID).
		Order("id ASC").
		Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("business_id = ?", business.ID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": gin.H{
			"id":       business.ID,
			"name":     business.Name,
			"slug":     business.Slug,
			"phone":    business.Phone,
			"email":    business.Email,
			"address":  business.Address,
			"timezone": business.Timezone,
		},
		"services":      services,
		"working_hours": hours,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) AvailableSlots(c *gin.Context) {
	business, ok := businessBySlug(c, h.db)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		dateStr = todayIn(business, h.clock.Now())
	}

	date, err := parseDateInBusiness(business, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD")
		return
	}

	slots, err := h.uc.Availability.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			BusinessID: business.ID,
			Date:       date,
		},
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// OTP
////////////////////////////////////////////////////////

func (h *PublicHandler) RequestOTP(c *gin.Context) {
	if _, ok := businessBySlug(c, h.db); !ok {
		return
	}

	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_phone", "Phone number is required")
		return
	}

	phone, ok := h.normalizePhone(c, req.Phone)
	if !ok {
		return
	}

	res, err := h.uc.RequestOTP.Execute(c.Request.Context(), phone)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp := gin.H{
		"message":  "OTP sent",
		"phone":    phone,
		"delivery": res.Delivery,
	}
	if res.Code != "" {
		resp["otp"] = res.Code
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PublicHandler) VerifyOTP(c *gin.Context) {
	business, ok := businessBySlug(c, h.db)
	if !ok {
		return
	}

	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_phone_or_otp", "Phone number and OTP code are required")
		return
	}

	phone, ok := h.normalizePhone(c, req.Phone)
	if !ok {
		return
	}

	res, err := h.uc.VerifyOTP.Execute(c.Request.Context(), business.ID, phone, req.OTP)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

////////////////////////////////////////////////////////
// CLIENT DETAILS / RESERVE
////////////////////////////////////////////////////////

func (h *PublicHandler) SubmitClientDetails(c *gin.Context) {
	business, ok := businessBySlug(c, h.db)
	if !ok {
		return
	}
	phone, ok := verifiedPhone(c, business)
	if !ok {
		return
	}

	var req ClientDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	ap, err := h.uc.ClientDetails.Execute(c.Request.Context(), ucAppointment.SubmitClientDetailsInput{
		BusinessID:  business.ID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: phone,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

func (h *PublicHandler) Reserve(c *gin.Context) {
	business, ok := businessBySlug(c, h.db)
	if !ok {
		return
	}
	phone, ok := verifiedPhone(c, business)
	if !ok {
		return
	}

	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	ap, err := h.uc.Reserve.Execute(c.Request.Context(), ucAppointment.ReserveInput{
		BusinessID:  business.ID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: phone,
		Date:        req.Date,
		Time:        req.Time,
		Services:    req.Services,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	loc := timezone.Location(business.Timezone)
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment reserved",
		"id":          ap.ID,
		"status":      ap.Status,
		"start_time":  timezone.Format(ap.StartTime, loc),
		"end_time":    timezone.Format(ap.EndTime, loc),
		"appointment": ap,
	})
}

////////////////////////////////////////////////////////
// LOOKUP / CHANGE REQUEST / CANCEL
////////////////////////////////////////////////////////

func (h *PublicHandler) ClientAppointment(c *gin.Context) {
	business, ok := businessBySlug(c, h.db)
	if !ok {
		return
	}
	phone, ok := verifiedPhone(c, business)
	if !ok {
		return
	}

	view, err := h.uc.ClientAppointment.Execute(c.Request.Context(), business.ID, phone)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *PublicHandler) SubmitChangeRequest(c *gin.Context) {
	business, ok := businessBySlug(c, h.db)
	if !ok {
		return
	}
	phone, ok := verifiedPhone(c, business)
	if !ok {
		return
	}

	var req ChangeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	cr, err := h.uc.ChangeRequest.Execute(c.Request.Context(), ucChangeRequest.SubmitInput{
		BusinessID:    business.ID,
		AppointmentID: req.AppointmentID,
		ClientPhone:   phone,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		Date:          req.Date,
		Time:          req.Time,
		Services:      req.Services,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":           "Change request submitted",
		"change_request_id": cr.ID,
	})
}

// Cancel não usa o token de telefone: o OTP vem no próprio corpo.
func (h *PublicHandler) Cancel(c *gin.Context) {
	business, ok := businessBySlug(c, h.db)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	phone, ok := h.normalizePhone(c, req.Phone)
	if !ok {
		return
	}

	ap, err := h.uc.Cancel.Execute(c.Request.Context(), ucAppointment.CancelInput{
		BusinessID:    business.ID,
		AppointmentID: req.AppointmentID,
		ClientPhone:   phone,
		OTP:           req.OTP,
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment cancelled",
		"appointment": ap,
	})
}
