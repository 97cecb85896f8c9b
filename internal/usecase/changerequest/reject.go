package changerequest

import (
	"context"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/metrics"
)

// Reject descarta o pedido; o agendamento fica como estava.
type Reject struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReject(repo domain.Repository, audit *audit.Dispatcher) *Reject {
	return &Reject{repo: repo, audit: audit}
}

func (uc *Reject) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	changeRequestID uint,
) error {

	var appointmentID uint

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		cr, err := tx.GetChangeRequest(ctx, businessID, changeRequestID)
		if err != nil {
			return changeRequestNotFound(err)
		}
		appointmentID = cr.AppointmentID
		return tx.DeleteChangeRequest(ctx, cr.ID)
	})
	if err != nil {
		return err
	}

	metrics.RecordChangeRequest("rejected")

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     "change_request_rejected",
		Entity:     "change_request",
		EntityID:   &changeRequestID,
		Metadata:   map[string]any{"appointment_id": appointmentID},
	})

	return nil
}
