package changerequest

import (
	"context"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/metrics"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

type Accept struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewAccept(repo domain.Repository, audit *audit.Dispatcher, clock timezone.Clock) *Accept {
	return &Accept{repo: repo, audit: audit, clock: clock}
}

// Execute aplica o pedido ao agendamento e apaga o pedido numa única
// transação: ou as duas escritas acontecem, ou nenhuma. Horário e
// expediente são conferidos de novo, já que o pedido pode ter envelhecido.
func (uc *Accept) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	changeRequestID uint,
) (*models.Appointment, error) {

	business, err := loadBusiness(ctx, uc.repo, businessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(business.Timezone)

	var ap *models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockSchedule(ctx, businessID); err != nil {
			return err
		}

		cr, err := tx.GetChangeRequest(ctx, businessID, changeRequestID)
		if err != nil {
			return changeRequestNotFound(err)
		}

		locked, err := tx.GetAppointmentForUpdate(ctx, businessID, cr.AppointmentID)
		if err != nil {
			return appointmentNotFound(err)
		}

		start := timezone.Localize(cr.RequestedStart, loc)
		end := timezone.Localize(cr.RequestedEnd, loc)

		if domain.Status(locked.Status).IsTerminal() {
			return httperr.ErrConflict("appointment_closed", "Appointment can no longer be changed")
		}
		if err := domain.CheckBookable(ctx, tx, businessID, start, end, uc.clock.Now()); err != nil {
			return err
		}

		if domain.Status(locked.Status).BlocksSlot() {
			busy, err := tx.ListBlockingAppointments(ctx, businessID, start, end, locked.ID)
			if err != nil {
				return err
			}
			if len(busy) > 0 {
				return errSlotUnavailable()
			}
		}

		if err := domain.Reschedule(locked, start, end, cr.RequestedServices, cr.RequestedTotalMin); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, locked); err != nil {
			return err
		}

		ap = locked
		return tx.DeleteChangeRequest(ctx, cr.ID)
	})
	if httperr.IsExclusionConflict(err) {
		return nil, errSlotUnavailable()
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordChangeRequest("accepted")

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     "change_request_accepted",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"change_request_id": changeRequestID,
			"start":             timezone.Format(ap.StartTime, loc),
		},
	})

	return ap, nil
}
