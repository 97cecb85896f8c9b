package changerequest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/metrics"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

type SubmitInput struct {
	BusinessID    uint
	AppointmentID uint

	// telefone verificado; precisa ser o dono do agendamento
	ClientPhone string
	ClientName  string
	ClientEmail string

	Date string
	Time string

	Services []models.LineItem
}

type Submit struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewSubmit(repo domain.Repository, audit *audit.Dispatcher, clock timezone.Clock) *Submit {
	return &Submit{repo: repo, audit: audit, clock: clock}
}

func (uc *Submit) Execute(
	ctx context.Context,
	in SubmitInput,
) (*models.ChangeRequest, error) {

	business, err := loadBusiness(ctx, uc.repo, in.BusinessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(business.Timezone)

	ap, err := uc.repo.GetAppointment(ctx, in.BusinessID, in.AppointmentID)
	if err != nil {
		return nil, appointmentNotFound(err)
	}
	if ap.ClientPhone != strings.TrimSpace(in.ClientPhone) {
		return nil, appointmentNotFound(domain.ErrRecordNotFound)
	}
	if domain.Status(ap.Status).IsTerminal() {
		return nil, httperr.ErrConflict("appointment_closed", "Appointment can no longer be changed")
	}
	if !ap.HasSchedule() {
		return nil, errNotScheduled()
	}

	start, err := timezone.ParseDateTime(in.Date, in.Time, loc)
	if err != nil {
		return nil, httperr.ErrValidation(
			"invalid_date_or_time",
			"Invalid date format. Use YYYY-MM-DD HH:MM.",
		)
	}

	totalMin, err := domain.TotalDuration(ctx, uc.repo, in.BusinessID, in.Services)
	if err != nil {
		return nil, err
	}
	end := start.Add(time.Duration(totalMin) * time.Minute)

	if err := domain.CheckBookable(ctx, uc.repo, in.BusinessID, start, end, uc.clock.Now()); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		name = ap.ClientName
	}
	email := strings.TrimSpace(in.ClientEmail)
	if email == "" {
		email = ap.ClientEmail
	}

	cr := &models.ChangeRequest{
		AppointmentID:        ap.ID,
		ClientName:           name,
		ClientPhone:          ap.ClientPhone,
		ClientEmail:          email,
		RequestedStart:       wallClock(start),
		RequestedEnd:         wallClock(end),
		RequestedServices:    append([]models.LineItem(nil), in.Services...),
		RequestedTotalMin:    totalMin,
		RequestedNumServices: len(in.Services),
		Status:               models.ChangeRequestPending,
	}

	if err := uc.repo.CreateChangeRequest(ctx, cr); err != nil {
		return nil, err
	}

	metrics.RecordChangeRequest("submitted")

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		Action:     "change_request_submitted",
		Entity:     "change_request",
		EntityID:   &cr.ID,
		Metadata:   map[string]any{"appointment_id": ap.ID},
	})

	return cr, nil
}

// wallClock guarda o horário de parede sem fuso (coluna timestamp);
// timezone.Localize faz o caminho inverso ao aprovar.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func loadBusiness(ctx context.Context, repo domain.Repository, businessID uint) (*models.Business, error) {
	b, err := repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("business_not_found", "Business not found")
		}
		return nil, err
	}
	return b, nil
}

func appointmentNotFound(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return httperr.ErrNotFound("appointment_not_found", "Appointment not found")
	}
	return err
}

func errNotScheduled() error {
	return httperr.ErrConflict("appointment_not_scheduled", "Appointment has no schedule to change yet")
}

func errSlotUnavailable() error {
	return httperr.ErrConflict("slot_unavailable", "The requested time slot is no longer available")
}

func changeRequestNotFound(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return httperr.ErrNotFound("change_request_not_found", "Change request not found")
	}
	return err
}
