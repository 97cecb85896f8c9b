package changerequest

import (
	"context"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/dto"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

type List struct {
	repo domain.Repository
}

func NewList(repo domain.Repository) *List {
	return &List{repo: repo}
}

func (uc *List) Execute(ctx context.Context, businessID uint) ([]dto.ChangeRequestDTO, error) {
	business, err := loadBusiness(ctx, uc.repo, businessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(business.Timezone)

	requests, err := uc.repo.ListChangeRequests(ctx, businessID)
	if err != nil {
		return nil, err
	}

	services, err := uc.repo.ListServices(ctx, businessID)
	if err != nil {
		return nil, err
	}
	catalog := dto.NewCatalog(services)

	out := make([]dto.ChangeRequestDTO, 0, len(requests))
	for _, cr := range requests {
		out = append(out, catalog.ChangeRequest(cr, loc))
	}
	return out, nil
}
