package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func apply(ap *models.Appointment, action Action) error {
	if err := CanApply(action, Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(Target(action))
	return nil
}

func Accept(ap *models.Appointment, now time.Time) error {
	if err := apply(ap, ActionAccept); err != nil {
		return err
	}
	ap.AcceptedAt = &now
	return nil
}

func Reject(ap *models.Appointment, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return httperr.ErrValidation("missing_reason", "Rejection reason is required")
	}
	if err := apply(ap, ActionReject); err != nil {
		return err
	}
	ap.RejectionReason = reason
	return nil
}

func Report(ap *models.Appointment, details string) error {
	details = strings.TrimSpace(details)
	if details == "" {
		return httperr.ErrValidation("missing_report_details", "Report details are required")
	}
	if err := apply(ap, ActionReport); err != nil {
		return err
	}
	ap.ReportDetails = details
	return nil
}

// MarkArrived assume que o OTP já foi conferido pelo chamador.
func MarkArrived(ap *models.Appointment, now time.Time) error {
	if err := apply(ap, ActionArrived); err != nil {
		return err
	}
	ap.ArrivedAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := apply(ap, ActionComplete); err != nil {
		return err
	}
	ap.CompletedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return httperr.ErrValidation("missing_cancellation_reason", "Cancellation reason is required")
	}
	if err := apply(ap, ActionCancel); err != nil {
		return err
	}
	ap.CancellationReason = reason
	ap.CancelledAt = &now
	return nil
}

// Reschedule sobrescreve agenda e serviços (pedido de alteração aprovado).
func Reschedule(ap *models.Appointment, start, end time.Time, items []models.LineItem, totalMin int) error {
	if Status(ap.Status).IsTerminal() {
		return httperr.ErrConflict("appointment_closed", "Appointment can no longer be changed")
	}
	if !ap.HasSchedule() {
		return httperr.ErrConflict("appointment_not_scheduled", "Appointment has no schedule to change yet")
	}
	if !end.After(start) {
		return httperr.ErrValidation("invalid_schedule", "End must be after start")
	}

	ap.StartTime = &start
	ap.EndTime = &end
	ap.Services = append([]models.LineItem(nil), items...)
	ap.TotalServiceMin = totalMin
	ap.NumServices = len(items)
	return nil
}
