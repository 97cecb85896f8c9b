package verification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/notify"
	"github.com/BruksfildServices01/booking-platform/internal/otp"
	"github.com/BruksfildServices01/booking-platform/internal/token"
)

type memStore struct {
	codes map[string]string
	ttls  map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{codes: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *memStore) Save(_ context.Context, purpose otp.Purpose, phone, code string, ttl time.Duration) error {
	s.codes[string(purpose)+phone] = code
	s.ttls[string(purpose)+phone] = ttl
	return nil
}

func (s *memStore) Latest(_ context.Context, purpose otp.Purpose, phone string) (string, error) {
	c, ok := s.codes[string(purpose)+phone]
	if !ok {
		return "", otp.ErrNotFound
	}
	return c, nil
}

func (s *memStore) Consume(_ context.Context, purpose otp.Purpose, phone string) error {
	delete(s.codes, string(purpose)+phone)
	return nil
}

const phone = "+79161234567"

func TestRequestThenVerifyIssuesPhoneToken(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	issuer := token.NewIssuer("secret", time.Hour, 30*time.Minute)

	gen := func(digits int) (string, error) {
		assert.Equal(t, otp.BookingDigits, digits)
		return "123456", nil
	}

	req, err := NewRequestOTP(store, notify.LogNotifier{}, gen, 5*time.Minute, true).Execute(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "123456", req.Code)
	assert.True(t, req.Delivery.SMSSent)
	assert.Equal(t, 5*time.Minute, store.ttls["booking"+phone])

	verify := NewVerifyOTP(store, issuer)

	_, err = verify.Execute(ctx, 7, phone, "654321")
	assert.Equal(t, httperr.KindInvalidOTP, httperr.KindOf(err))

	res, err := verify.Execute(ctx, 7, phone, "123456")
	require.NoError(t, err)

	claims, err := issuer.ParsePhone(res.PhoneToken)
	require.NoError(t, err)
	assert.Equal(t, phone, claims.Phone)
	assert.Equal(t, uint(7), claims.BusinessID)

	// código de uso único
	_, err = verify.Execute(ctx, 7, phone, "123456")
	assert.True(t, httperr.IsBusiness(err, "otp_not_found"))
}

func TestRequestHidesCodeOutsideDev(t *testing.T) {
	store := newMemStore()
	res, err := NewRequestOTP(store, notify.LogNotifier{}, nil, time.Minute, false).Execute(context.Background(), phone)
	require.NoError(t, err)
	assert.Empty(t, res.Code)
	assert.Len(t, store.codes["booking"+phone], otp.BookingDigits)
}

func TestVerifyRequiresFields(t *testing.T) {
	_, err := NewVerifyOTP(newMemStore(), token.NewIssuer("s", time.Hour, time.Hour)).Execute(context.Background(), 1, phone, "")
	assert.True(t, httperr.IsBusiness(err, "missing_phone_or_otp"))
}
