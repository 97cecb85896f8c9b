package appointment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/domain/earnings"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/metrics"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/notify"
	"github.com/BruksfildServices01/booking-platform/internal/otp"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type TransitionInput struct {
	BusinessID    uint
	UserID        uint
	AppointmentID uint

	Action domain.Action

	Reason  string // reject
	Details string // report
	OTP     string // arrived
}

type TransitionResult struct {
	Appointment *models.Appointment `json:"appointment"`

	// accept
	OTP                 string           `json:"otp,omitempty"`
	ConfirmationMessage string           `json:"confirmation_message,omitempty"`
	Delivery            *notify.Delivery `json:"delivery,omitempty"`

	// paid
	Earnings *earnings.Summary `json:"earnings,omitempty"`
}

type EarningsReader interface {
	Execute(ctx context.Context, businessID uint) (*earnings.Summary, error)
}

// ======================================================
// USE CASE
// ======================================================

// Transition aplica as ações do dono sobre um agendamento, sempre com
// a linha travada (SELECT ... FOR UPDATE).
type Transition struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier notify.Notifier
	earnings EarningsReader
	clock    timezone.Clock
	generate otp.Generator
}

func NewTransition(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier notify.Notifier,
	earnings EarningsReader,
	clock timezone.Clock,
	generate otp.Generator,
) *Transition {
	if generate == nil {
		generate = otp.Generate
	}
	return &Transition{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		earnings: earnings,
		clock:    clock,
		generate: generate,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Transition) Execute(
	ctx context.Context,
	in TransitionInput,
) (res *TransitionResult, err error) {

	defer func() { metrics.RecordTransition(string(in.Action), err) }()

	// cancelamento é exclusivo do cliente
	if in.Action == domain.ActionCancel {
		return nil, httperr.ErrValidation("invalid_action", "Invalid action")
	}

	business, err := loadBusiness(ctx, uc.repo, in.BusinessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(business.Timezone)

	var (
		ap   *models.Appointment
		code string
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		locked, err := tx.GetAppointmentForUpdate(ctx, in.BusinessID, in.AppointmentID)
		if err != nil {
			return appointmentNotFound(err)
		}
		ap = locked

		now := uc.clock.Now()

		switch in.Action {
		case domain.ActionAccept:
			if err := domain.Accept(ap, now); err != nil {
				return err
			}
			code, err = uc.generate(otp.ArrivalDigits)
			if err != nil {
				return err
			}
			if err := tx.SaveOTP(ctx, &models.OTP{
				Phone:   ap.ClientPhone,
				Purpose: string(otp.PurposeArrival),
				Code:    code,
			}); err != nil {
				return err
			}

		case domain.ActionReject:
			if err := domain.Reject(ap, in.Reason); err != nil {
				return err
			}

		case domain.ActionReport:
			if err := domain.Report(ap, in.Details); err != nil {
				return err
			}

		case domain.ActionArrived:
			if err := domain.CanApply(domain.ActionArrived, domain.Status(ap.Status)); err != nil {
				return err
			}
			if err := uc.checkArrivalOTP(ctx, tx, ap.ClientPhone, in.OTP); err != nil {
				return err
			}
			if err := domain.MarkArrived(ap, now); err != nil {
				return err
			}

		case domain.ActionComplete:
			if err := domain.Complete(ap, now); err != nil {
				return err
			}

		default:
			return httperr.ErrValidation("invalid_action", "Invalid action")
		}

		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Pós-commit: nada aqui desfaz a transição
	// --------------------------------------------------
	res = &TransitionResult{Appointment: ap}

	switch in.Action {
	case domain.ActionAccept:
		metrics.RecordOTPIssued(string(otp.PurposeArrival))

		start := uc.clock.Now()
		if ap.StartTime != nil {
			start = ap.StartTime.In(loc)
		}
		msg := notify.ConfirmationMessage(ap.ClientName, start, business.Name, code)
		delivery := uc.notifier.SendConfirmation(ctx, ap.ClientEmail, ap.ClientPhone, msg)

		metrics.RecordNotification("email", delivery.EmailSent)
		metrics.RecordNotification("sms", delivery.SMSSent)
		if !delivery.EmailSent {
			slog.ErrorContext(ctx, "confirmation email failed", "appointment_id", ap.ID, "email", ap.ClientEmail)
		}
		if !delivery.SMSSent {
			slog.ErrorContext(ctx, "confirmation sms failed", "appointment_id", ap.ID, "phone", ap.ClientPhone)
		}

		res.OTP = code
		res.ConfirmationMessage = msg
		res.Delivery = &delivery

	case domain.ActionComplete:
		if uc.earnings != nil {
			summary, err := uc.earnings.Execute(ctx, in.BusinessID)
			if err != nil {
				slog.WarnContext(ctx, "earnings recompute failed", "business_id", in.BusinessID, "err", err)
			} else {
				res.Earnings = summary
			}
		}
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     &in.UserID,
		Action:     "appointment_" + ap.Status,
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return res, nil
}

// checkArrivalOTP compara com o código mais recente emitido para o telefone.
func (uc *Transition) checkArrivalOTP(
	ctx context.Context,
	tx domain.Repository,
	phone string,
	given string,
) (err error) {

	defer func() { metrics.RecordOTPVerification(string(otp.PurposeArrival), err) }()

	latest, err := tx.LatestOTP(ctx, phone, string(otp.PurposeArrival))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return httperr.ErrOTPNotFound()
		}
		return err
	}
	return otp.Match(latest.Code, given)
}
