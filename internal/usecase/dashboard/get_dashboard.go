package dashboard

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/domain/earnings"
	"github.com/BruksfildServices01/booking-platform/internal/dto"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

// ======================================================
// OUTPUT
// ======================================================

type Statistics struct {
	ClientDetails  int64 `json:"client_details_provided"`
	Pending        int64 `json:"pending"`
	Accepted       int64 `json:"accepted"`
	Rejected       int64 `json:"rejected"`
	Reported       int64 `json:"reported"`
	PendingPayment int64 `json:"pending_payment"`
	Completed      int64 `json:"completed"`
	Cancelled      int64 `json:"cancelled"`
}

type Reservations struct {
	Active    []dto.AppointmentListDTO `json:"active"`
	Closed    []dto.AppointmentListDTO `json:"closed"` // recusados e reportados
	Completed []dto.AppointmentListDTO `json:"completed"`
	Cancelled []dto.AppointmentListDTO `json:"cancelled"`
}

type Dashboard struct {
	BusinessName    string                     `json:"business_name"`
	Slug            string                     `json:"slug"`
	Statistics      Statistics                 `json:"statistics"`
	Earnings        earnings.Summary           `json:"earnings"`
	ServiceEarnings []earnings.ServiceEarnings `json:"services_data"`
	Reservations    Reservations               `json:"reservations"`
	ChangeRequests  []dto.ChangeRequestDTO     `json:"change_requests"`
}

// ======================================================
// USE CASE
// ======================================================

type GetDashboard struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewGetDashboard(repo domain.Repository, clock timezone.Clock) *GetDashboard {
	return &GetDashboard{repo: repo, clock: clock}
}

func statistics(counts map[domain.Status]int64) Statistics {
	return Statistics{
		ClientDetails:  counts[domain.StatusClientDetailsProvided],
		Pending:        counts[domain.StatusPending],
		Accepted:       counts[domain.StatusAccepted],
		Rejected:       counts[domain.StatusRejected],
		Reported:       counts[domain.StatusReported],
		PendingPayment: counts[domain.StatusArrived],
		Completed:      counts[domain.StatusCompleted],
		Cancelled:      counts[domain.StatusCancelled],
	}
}

// split separa a agenda ativa dos encerrados; reportado conta como
// encerrado no painel.
func split(views []dto.AppointmentListDTO) Reservations {
	out := Reservations{
		Active:    []dto.AppointmentListDTO{},
		Closed:    []dto.AppointmentListDTO{},
		Completed: []dto.AppointmentListDTO{},
		Cancelled: []dto.AppointmentListDTO{},
	}
	for _, v := range views {
		switch domain.Status(v.Status) {
		case domain.StatusCompleted:
			out.Completed = append(out.Completed, v)
		case domain.StatusCancelled:
			out.Cancelled = append(out.Cancelled, v)
		case domain.StatusRejected, domain.StatusReported:
			out.Closed = append(out.Closed, v)
		default:
			out.Active = append(out.Active, v)
		}
	}
	return out
}

func (uc *GetDashboard) Execute(ctx context.Context, businessID uint) (*Dashboard, error) {
	business, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("business_not_found", "Business not found")
		}
		return nil, err
	}
	loc := timezone.Location(business.Timezone)

	counts, err := uc.repo.CountAppointmentsByStatus(ctx, businessID)
	if err != nil {
		return nil, err
	}

	all, err := uc.repo.ListAppointmentsByStatus(ctx, businessID)
	if err != nil {
		return nil, err
	}

	services, err := uc.repo.ListServices(ctx, businessID)
	if err != nil {
		return nil, err
	}
	catalog := dto.NewCatalog(services)

	requests, err := uc.repo.ListChangeRequests(ctx, businessID)
	if err != nil {
		return nil, err
	}
	crViews := make([]dto.ChangeRequestDTO, 0, len(requests))
	for _, cr := range requests {
		crViews = append(crViews, catalog.ChangeRequest(cr, loc))
	}

	var completed []models.Appointment
	for _, ap := range all {
		if ap.Status == string(domain.StatusCompleted) {
			completed = append(completed, ap)
		}
	}

	now := uc.clock.Now()

	return &Dashboard{
		BusinessName:    business.Name,
		Slug:            business.Slug,
		Statistics:      statistics(counts),
		Earnings:        earnings.Compute(completed, services, now),
		ServiceEarnings: earnings.ByService(completed, services, now),
		Reservations:    split(catalog.Appointments(all, loc)),
		ChangeRequests:  crViews,
	}, nil
}
