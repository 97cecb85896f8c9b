package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/dto"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	businessID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	business, err := loadBusiness(ctx, uc.repo, businessID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(business.Timezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.AddDate(0, 0, 1)

	return listPeriod(ctx, uc.repo, businessID, start, end, loc)
}

func listPeriod(
	ctx context.Context,
	repo domain.Repository,
	businessID uint,
	start time.Time,
	end time.Time,
	loc *time.Location,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := repo.ListAppointmentsForPeriod(ctx, businessID, start, end)
	if err != nil {
		return nil, err
	}

	services, err := repo.ListServices(ctx, businessID)
	if err != nil {
		return nil, err
	}

	return dto.NewCatalog(services).Appointments(appointments, loc), nil
}
