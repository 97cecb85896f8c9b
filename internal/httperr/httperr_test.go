package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (int, HTTPError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Respond(c, err)

	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrValidation("missing_name", "Name is required"), http.StatusBadRequest, "missing_name"},
		{ErrInvalidOTP(), http.StatusBadRequest, "invalid_otp"},
		{ErrOTPNotFound(), http.StatusNotFound, "otp_not_found"},
		{ErrNotConfigured(), http.StatusNotFound, "not_configured"},
		{ErrConflict("slot_unavailable", "taken"), http.StatusConflict, "slot_unavailable"},
		{ErrUnauthorized("phone_not_verified", "verify"), http.StatusUnauthorized, "phone_not_verified"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		status, body := respond(t, tc.err)
		assert.Equal(t, tc.status, status, tc.code)
		assert.Equal(t, tc.code, body.Code)
	}
}

func TestStableOTPMessages(t *testing.T) {
	_, body := respond(t, ErrInvalidOTP())
	assert.Equal(t, "Invalid OTP", body.Message)

	_, body = respond(t, ErrOTPNotFound())
	assert.Equal(t, "No OTP found", body.Message)
}

func TestWrappedBusinessError(t *testing.T) {
	err := fmt.Errorf("accept: %w", ErrConflict("invalid_transition", "nope"))

	assert.True(t, IsBusiness(err, "invalid_transition"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("x")))
}

func TestPostgresConflicts(t *testing.T) {
	excl := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})
	uniq := &pgconn.PgError{Code: "23505"}

	assert.True(t, IsExclusionConflict(excl))
	assert.False(t, IsUniqueViolation(excl))
	assert.True(t, IsUniqueViolation(uniq))

	status, _ := respond(t, excl)
	assert.Equal(t, http.StatusConflict, status)
}
