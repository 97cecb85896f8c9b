package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ReserveInput struct {
	BusinessID uint

	ClientName  string
	ClientEmail string
	ClientPhone string

	// "YYYY-MM-DD HH:MM" em Date, ou Date + Time separados
	Date string
	Time string

	Services []models.LineItem
}

// ======================================================
// USE CASE
// ======================================================

type Reserve struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewReserve(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *Reserve {
	return &Reserve{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Reserve) Execute(
	ctx context.Context,
	in ReserveInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Campos obrigatórios
	// --------------------------------------------------
	name := strings.TrimSpace(in.ClientName)
	email := strings.TrimSpace(in.ClientEmail)
	phone := strings.TrimSpace(in.ClientPhone)

	switch {
	case name == "":
		return nil, httperr.ErrValidation("missing_client_name", "Client name is required")
	case email == "":
		return nil, httperr.ErrValidation("missing_client_email", "Client email is required")
	case phone == "":
		return nil, httperr.ErrValidation("missing_phone", "Verified phone number is required")
	}

	// --------------------------------------------------
	// 2️⃣ Negócio
	// --------------------------------------------------
	business, err := loadBusiness(ctx, uc.repo, in.BusinessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(business.Timezone)

	// --------------------------------------------------
	// 3️⃣ Data / hora no fuso do negócio
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(in.Date, in.Time, loc)
	if err != nil {
		return nil, httperr.ErrValidation(
			"invalid_date_or_time",
			"Invalid date format. Use YYYY-MM-DD HH:MM.",
		)
	}

	// --------------------------------------------------
	// 4️⃣ Serviços
	// --------------------------------------------------
	totalMin, err := domain.TotalDuration(ctx, uc.repo, in.BusinessID, in.Services)
	if err != nil {
		return nil, err
	}
	end := start.Add(time.Duration(totalMin) * time.Minute)

	// --------------------------------------------------
	// 5️⃣ Futuro + expediente
	// --------------------------------------------------
	if err := domain.CheckBookable(ctx, uc.repo, in.BusinessID, start, end, uc.clock.Now()); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Conflito + criação na mesma transação
	// --------------------------------------------------
	ap := &models.Appointment{
		BusinessID:      in.BusinessID,
		ClientName:      name,
		ClientEmail:     email,
		ClientPhone:     phone,
		StartTime:       &start,
		EndTime:         &end,
		Services:        append([]models.LineItem(nil), in.Services...),
		TotalServiceMin: totalMin,
		NumServices:     len(in.Services),
		Status:          string(domain.StatusPending),
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockSchedule(ctx, in.BusinessID); err != nil {
			return err
		}
		busy, err := tx.ListBlockingAppointments(ctx, in.BusinessID, start, end, 0)
		if err != nil {
			return err
		}
		if len(busy) > 0 {
			return errSlotUnavailable()
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if httperr.IsExclusionConflict(err) {
		return nil, errSlotUnavailable()
	}
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		Action:     "appointment_reserved",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"start":     timezone.Format(ap.StartTime, loc),
			"total_min": totalMin,
		},
	})

	return ap, nil
}

func errSlotUnavailable() error {
	return httperr.ErrConflict("slot_unavailable", "The selected time slot is no longer available")
}
