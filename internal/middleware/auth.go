package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/token"
)

const (
	ContextUserID     = "userID"
	ContextBusinessID = "businessID"
	ContextUserRole   = "userRole"

	ContextPhone           = "verifiedPhone"
	ContextPhoneBusinessID = "verifiedPhoneBusinessID"
)

const PhoneTokenHeader = "X-Phone-Token"

func AuthMiddleware(tokens *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Authorization header must be Bearer <token>")
			c.Abort()
			return
		}

		claims, err := tokens.ParseOwner(parts[1])
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextBusinessID, claims.BusinessID)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}

// RequireRole roda depois do AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != role {
			httperr.Forbidden(c, "forbidden", "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// PhoneTokenMiddleware exige o token emitido após a verificação por OTP.
// A checagem de que o token é do mesmo negócio do slug fica no handler.
func PhoneTokenMiddleware(tokens *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(PhoneTokenHeader))
		if raw == "" {
			httperr.Unauthorized(c, "phone_not_verified", "Phone number must be verified first")
			c.Abort()
			return
		}

		claims, err := tokens.ParsePhone(raw)
		if err != nil {
			httperr.Unauthorized(c, "invalid_phone_token", "Phone verification expired, request a new OTP")
			c.Abort()
			return
		}

		c.Set(ContextPhone, claims.Phone)
		c.Set(ContextPhoneBusinessID, claims.BusinessID)

		c.Next()
	}
}
