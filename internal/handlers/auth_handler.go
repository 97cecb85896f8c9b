package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	"github.com/BruksfildServices01/booking-platform/internal/config"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
	"github.com/BruksfildServices01/booking-platform/internal/token"
	"github.com/BruksfildServices01/booking-platform/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	tokens *token.Issuer
	audit  *audit.Dispatcher

	// troca a checagem de DNS nos testes
	emailDomainOK func(c *gin.Context, email string) bool
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	tokens *token.Issuer,
	audit *audit.Dispatcher,
) *AuthHandler {
	return &AuthHandler{
		db:     db,
		config: cfg,
		tokens: tokens,
		audit:  audit,
		emailDomainOK: func(c *gin.Context, email string) bool {
			return validators.IsEmailDomainValid(c.Request.Context(), email)
		},
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	BusinessName    string `json:"business_name" binding:"required"`
	BusinessSlug    string `json:"business_slug" binding:"required"`
	BusinessPhone   string `json:"business_phone"`
	BusinessAddress string `json:"business_address"`
	Timezone        string `json:"timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register cria o negócio como pendente; ele só aparece nas rotas públicas
// depois da aprovação do admin.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.BusinessSlug))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.emailDomainOK(c, email) {
		httperr.BadRequest(c, "invalid_email_domain", "Email domain does not accept mail")
		return
	}

	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = h.config.BusinessTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown timezone")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Failed to hash password")
		return
	}

	business := models.Business{
		Name:     strings.TrimSpace(req.BusinessName),
		Slug:     slug,
		Phone:    req.BusinessPhone,
		Email:    email,
		Address:  req.BusinessAddress,
		Timezone: tz,
		Status:   models.BusinessPending,
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleOwner,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Business{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrConflict("slug_already_exists", "Business slug is already taken")
		}

		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrConflict("email_already_exists", "Email is already registered")
		}

		if err := tx.Create(&business).Error; err != nil {
			return err
		}
		user.BusinessID = &business.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: business.ID,
		UserID:     &user.ID,
		Action:     "business_registered",
		Entity:     "business",
		EntityID:   &business.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"phone":       user.Phone,
			"business_id": business.ID,
		},
		"business": gin.H{
			"id":     business.ID,
			"name":   business.Name,
			"slug":   business.Slug,
			"status": business.Status,
		},
		"message": "Registration received, awaiting admin approval",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password")
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password")
		return
	}

	var businessID uint
	resp := gin.H{}

	if user.Role != models.RoleAdmin {
		if user.BusinessID == nil {
			httperr.Forbidden(c, "business_not_found", "User has no business")
			return
		}

		var business models.Business
		if err := h.db.WithContext(c.Request.Context()).First(&business, *user.BusinessID).Error; err != nil {
			httperr.Respond(c, err)
			return
		}

		switch business.Status {
		case models.BusinessPending:
			httperr.Forbidden(c, "business_pending", "Business is awaiting admin approval")
			return
		case models.BusinessRejected:
			httperr.Forbidden(c, "business_rejected", "Business registration was rejected")
			return
		}

		businessID = business.ID
		resp["business"] = gin.H{
			"id":   business.ID,
			"name": business.Name,
			"slug": business.Slug,
		}
	}

	signed, err := h.tokens.IssueOwner(token.OwnerClaims{
		UserID:     user.ID,
		BusinessID: businessID,
		Role:       user.Role,
	})
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Failed to generate token")
		return
	}

	resp["user"] = gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"phone": user.Phone,
		"role":  user.Role,
	}
	resp["token"] = signed

	c.JSON(http.StatusOK, resp)
}
