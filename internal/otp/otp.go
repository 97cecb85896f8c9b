package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
)

type Purpose string

const (
	// PurposeBooking cobre verificação do telefone e cancelamento.
	PurposeBooking Purpose = "booking"
	PurposeArrival Purpose = "arrival"
)

const (
	BookingDigits = 6
	ArrivalDigits = 4
)

var ErrNotFound = errors.New("otp not found")

// Generator existe para os testes fixarem o código.
type Generator func(digits int) (string, error)

func Generate(digits int) (string, error) {
	var sb strings.Builder
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}

// Store guarda o último código emitido por (purpose, phone).
type Store interface {
	Save(ctx context.Context, purpose Purpose, phone, code string, ttl time.Duration) error
	Latest(ctx context.Context, purpose Purpose, phone string) (string, error)
	Consume(ctx context.Context, purpose Purpose, phone string) error
}

// Match compara o código informado com o esperado.
func Match(expected, given string) error {
	given = strings.TrimSpace(given)
	if given == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(given)) != 1 {
		return httperr.ErrInvalidOTP()
	}
	return nil
}

// Verify confere o último código do telefone.
func Verify(ctx context.Context, store Store, purpose Purpose, phone, code string) error {
	expected, err := store.Latest(ctx, purpose, phone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.ErrOTPNotFound()
		}
		return err
	}
	return Match(expected, code)
}
