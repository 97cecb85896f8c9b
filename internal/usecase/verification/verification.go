package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/metrics"
	"github.com/BruksfildServices01/booking-platform/internal/notify"
	"github.com/BruksfildServices01/booking-platform/internal/otp"
	"github.com/BruksfildServices01/booking-platform/internal/token"
)

// ======================================================
// REQUEST
// ======================================================

type RequestOTPResult struct {
	Delivery notify.Delivery `json:"delivery"`

	// preenchido só com EXPOSE_OTP (ambiente de desenvolvimento)
	Code string `json:"otp,omitempty"`
}

// RequestOTP emite o código de 6 dígitos do canal de reserva. O mesmo
// código serve para verificar o telefone ou confirmar um cancelamento.
type RequestOTP struct {
	store    otp.Store
	notifier notify.Notifier
	generate otp.Generator
	ttl      time.Duration
	expose   bool
}

func NewRequestOTP(
	store otp.Store,
	notifier notify.Notifier,
	generate otp.Generator,
	ttl time.Duration,
	expose bool,
) *RequestOTP {
	if generate == nil {
		generate = otp.Generate
	}
	return &RequestOTP{
		store:    store,
		notifier: notifier,
		generate: generate,
		ttl:      ttl,
		expose:   expose,
	}
}

func (uc *RequestOTP) Execute(ctx context.Context, phone string) (*RequestOTPResult, error) {
	if phone == "" {
		return nil, httperr.ErrValidation("missing_phone", "Phone number is required")
	}

	code, err := uc.generate(otp.BookingDigits)
	if err != nil {
		return nil, err
	}

	if err := uc.store.Save(ctx, otp.PurposeBooking, phone, code, uc.ttl); err != nil {
		return nil, err
	}
	metrics.RecordOTPIssued(string(otp.PurposeBooking))

	msg := fmt.Sprintf("Your verification code is %s.", code)
	delivery := uc.notifier.SendConfirmation(ctx, "", phone, msg)
	metrics.RecordNotification("sms", delivery.SMSSent)
	if !delivery.SMSSent {
		slog.WarnContext(ctx, "otp sms not delivered", "phone", phone)
	}

	res := &RequestOTPResult{Delivery: delivery}
	if uc.expose {
		res.Code = code
	}
	return res, nil
}

// ======================================================
// VERIFY
// ======================================================

type VerifyOTPResult struct {
	PhoneToken string `json:"phone_token"`
	Phone      string `json:"phone"`
}

type VerifyOTP struct {
	store  otp.Store
	tokens *token.Issuer
}

func NewVerifyOTP(store otp.Store, tokens *token.Issuer) *VerifyOTP {
	return &VerifyOTP{store: store, tokens: tokens}
}

// Execute consome o código e devolve o token de telefone verificado,
// válido só para o negócio informado.
func (uc *VerifyOTP) Execute(
	ctx context.Context,
	businessID uint,
	phone string,
	code string,
) (res *VerifyOTPResult, err error) {

	defer func() { metrics.RecordOTPVerification(string(otp.PurposeBooking), err) }()

	if phone == "" || code == "" {
		return nil, httperr.ErrValidation("missing_phone_or_otp", "Phone number and OTP code are required")
	}

	if err := otp.Verify(ctx, uc.store, otp.PurposeBooking, phone, code); err != nil {
		return nil, err
	}

	if err := uc.store.Consume(ctx, otp.PurposeBooking, phone); err != nil {
		slog.WarnContext(ctx, "otp consume failed", "phone", phone, "err", err)
	}

	signed, err := uc.tokens.IssuePhone(token.PhoneClaims{Phone: phone, BusinessID: businessID})
	if err != nil {
		return nil, err
	}

	return &VerifyOTPResult{PhoneToken: signed, Phone: phone}, nil
}
