package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/dto"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

// GetClientAppointment devolve o agendamento mais recente (não cancelado)
// do telefone verificado.
type GetClientAppointment struct {
	repo domain.Repository
}

func NewGetClientAppointment(repo domain.Repository) *GetClientAppointment {
	return &GetClientAppointment{repo: repo}
}

func (uc *GetClientAppointment) Execute(
	ctx context.Context,
	businessID uint,
	phone string,
) (*dto.AppointmentListDTO, error) {

	business, err := loadBusiness(ctx, uc.repo, businessID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.FindLatestAppointmentByPhone(ctx, businessID, phone)
	if err != nil {
		return nil, appointmentNotFound(err)
	}

	services, err := uc.repo.ListServices(ctx, businessID)
	if err != nil {
		return nil, err
	}

	view := dto.NewCatalog(services).Appointment(*ap, timezone.Location(business.Timezone))
	return &view, nil
}
