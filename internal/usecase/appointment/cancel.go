package appointment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/metrics"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/otp"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

type CancelInput struct {
	BusinessID    uint
	AppointmentID uint

	ClientPhone string
	OTP         string
	Reason      string
}

// CancelAppointment é o cancelamento feito pelo próprio cliente, validado
// pelo OTP do mesmo canal da reserva.
type CancelAppointment struct {
	repo  domain.Repository
	otps  otp.Store
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCancelAppointment(
	repo domain.Repository,
	otps otp.Store,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		otps:  otps,
		audit: audit,
		clock: clock,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelInput,
) (ap *models.Appointment, err error) {

	defer func() { metrics.RecordTransition(string(domain.ActionCancel), err) }()

	phone := strings.TrimSpace(in.ClientPhone)
	if phone == "" {
		return nil, httperr.ErrValidation("missing_phone", "Phone number is required")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, httperr.ErrValidation("missing_cancellation_reason", "Cancellation reason is required")
	}

	if _, err := loadBusiness(ctx, uc.repo, in.BusinessID); err != nil {
		return nil, err
	}

	verr := otp.Verify(ctx, uc.otps, otp.PurposeBooking, phone, in.OTP)
	metrics.RecordOTPVerification(string(otp.PurposeBooking), verr)
	if verr != nil {
		return nil, verr
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		locked, err := tx.GetAppointmentForUpdate(ctx, in.BusinessID, in.AppointmentID)
		if err != nil {
			return appointmentNotFound(err)
		}
		// agendamento de outro telefone conta como inexistente
		if locked.ClientPhone != phone {
			return appointmentNotFound(domain.ErrRecordNotFound)
		}

		if err := domain.Cancel(locked, in.Reason, uc.clock.Now()); err != nil {
			return err
		}
		ap = locked
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	if err := uc.otps.Consume(ctx, otp.PurposeBooking, phone); err != nil {
		slog.WarnContext(ctx, "otp consume failed", "phone", phone, "err", err)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		Action:     "appointment_cancelled",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata:   map[string]any{"reason": ap.CancellationReason},
	})

	return ap, nil
}
