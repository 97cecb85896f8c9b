package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Delivery indica, por canal, se o envio foi aceito.
type Delivery struct {
	EmailSent bool `json:"email_success"`
	SMSSent   bool `json:"sms_success"`
}

// Notifier é best-effort: falhas são logadas e refletidas em Delivery,
// nunca propagadas.
type Notifier interface {
	SendConfirmation(ctx context.Context, email, phone, message string) Delivery
}

func ConfirmationMessage(clientName string, start time.Time, company, code string) string {
	return fmt.Sprintf(
		"Dear %s,\nYour appointment at %s with %s has been confirmed. Your OTP is %s. "+
			"Please present this OTP at the time of your appointment.",
		clientName,
		start.Format("2006-01-02 15:04"),
		company,
		code,
	)
}

// LogNotifier simula o envio (sem provedor de e-mail/SMS configurado).
type LogNotifier struct{}

func (LogNotifier) SendConfirmation(ctx context.Context, email, phone, message string) Delivery {
	d := Delivery{EmailSent: email != "", SMSSent: phone != ""}
	slog.InfoContext(ctx, "confirmation simulated",
		"email", email,
		"phone", phone,
		"email_sent", d.EmailSent,
		"sms_sent", d.SMSSent,
	)
	return d
}
