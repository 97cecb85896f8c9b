package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/validators"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return c, w
}

func TestVerifiedPhoneMustMatchBusiness(t *testing.T) {
	business := &models.Business{ID: 7}

	c, _ := testContext()
	c.Set(middleware.ContextPhone, "+15551234567")
	c.Set(middleware.ContextPhoneBusinessID, uint(7))

	phone, ok := verifiedPhone(c, business)
	assert.True(t, ok)
	assert.Equal(t, "+15551234567", phone)

	c, w := testContext()
	c.Set(middleware.ContextPhone, "+15551234567")
	c.Set(middleware.ContextPhoneBusinessID, uint(8))

	_, ok = verifiedPhone(c, business)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_phone_token")
}

func TestNormalizePhoneResponses(t *testing.T) {
	h := &PublicHandler{phones: validators.NewPhoneNormalizer([]string{"US"})}

	c, _ := testContext()
	phone, ok := h.normalizePhone(c, "+1 (555) 123-4567")
	assert.True(t, ok)
	assert.Equal(t, "+15551234567", phone)

	c, w := testContext()
	_, ok = h.normalizePhone(c, "  ")
	assert.False(t, ok)
	assert.Contains(t, w.Body.String(), "missing_phone")

	c, w = testContext()
	_, ok = h.normalizePhone(c, "not a phone")
	assert.False(t, ok)
	assert.Contains(t, w.Body.String(), "invalid_phone")
}

func TestParamID(t *testing.T) {
	c, _ := testContext()
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, ok := paramID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)

	c, w := testContext()
	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, ok = paramID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
