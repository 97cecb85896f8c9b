package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/metrics"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewGetAvailability(repo domain.Repository, clock timezone.Clock) *GetAvailability {
	return &GetAvailability{repo: repo, clock: clock}
}

// Execute só lê: pode rodar em paralelo sem coordenação.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (slots []domain.Slot, err error) {

	defer func() { metrics.RecordSlotQuery(err) }()

	business, err := loadBusiness(ctx, uc.repo, in.BusinessID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(business.Timezone)
	day := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, loc)

	wh, err := uc.repo.GetWorkingHours(ctx, business.ID, int(day.Weekday()))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, httperr.ErrNotConfigured()
		}
		return nil, err
	}

	open, closing, err := domain.DayWindow(wh, day)
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListBlockingAppointments(ctx, business.ID, open, closing, 0)
	if err != nil {
		return nil, err
	}

	return domain.AvailableSlots(
		open,
		closing,
		uc.clock.Now(),
		domain.BusyIntervals(appointments),
	), nil
}
