package earnings

import (
	"context"

	"github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	domain "github.com/BruksfildServices01/booking-platform/internal/domain/earnings"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

// GetEarnings recalcula a cada chamada; nada é armazenado.
type GetEarnings struct {
	repo  appointment.Repository
	clock timezone.Clock
}

func NewGetEarnings(repo appointment.Repository, clock timezone.Clock) *GetEarnings {
	return &GetEarnings{repo: repo, clock: clock}
}

func (uc *GetEarnings) load(ctx context.Context, businessID uint) (*domain.Summary, []domain.ServiceEarnings, error) {
	completed, err := uc.repo.ListAppointmentsByStatus(ctx, businessID, appointment.StatusCompleted)
	if err != nil {
		return nil, nil, err
	}

	services, err := uc.repo.ListServices(ctx, businessID)
	if err != nil {
		return nil, nil, err
	}

	now := uc.clock.Now()
	summary := domain.Compute(completed, services, now)
	return &summary, domain.ByService(completed, services, now), nil
}

func (uc *GetEarnings) Execute(ctx context.Context, businessID uint) (*domain.Summary, error) {
	summary, _, err := uc.load(ctx, businessID)
	return summary, err
}

// ByService devolve o resumo e a quebra por serviço numa leitura só.
func (uc *GetEarnings) ByService(
	ctx context.Context,
	businessID uint,
) (*domain.Summary, []domain.ServiceEarnings, error) {
	return uc.load(ctx, businessID)
}
