package httperr

import "errors"

type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindNotConfigured Kind = "not_configured"
	KindUnauthorized  Kind = "unauthorized"
	KindConflict      Kind = "conflict"
	KindInvalidOTP    Kind = "invalid_otp"
	KindInternal      Kind = "internal"
)

// Mensagens estáveis; o front faz branch nelas.
const (
	MsgInvalidOTP    = "Invalid OTP"
	MsgOTPNotFound   = "No OTP found"
	MsgNotConfigured = "Working hours are not configured for this day"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

// ErrBusiness é um erro de validação identificado só pelo código.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrValidation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func ErrNotConfigured() error {
	return BusinessError{Kind: KindNotConfigured, Code: "not_configured", Message: MsgNotConfigured}
}

func ErrUnauthorized(code, message string) error {
	return BusinessError{Kind: KindUnauthorized, Code: code, Message: message}
}

func ErrConflict(code, message string) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func ErrInvalidOTP() error {
	return BusinessError{Kind: KindInvalidOTP, Code: "invalid_otp", Message: MsgInvalidOTP}
}

func ErrOTPNotFound() error {
	return BusinessError{Kind: KindNotFound, Code: "otp_not_found", Message: MsgOTPNotFound}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}
