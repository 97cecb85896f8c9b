package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

type ServiceGetter interface {
	GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error)
}

// TotalDuration soma duração × quantidade de cada item. Todo serviço
// precisa existir e pertencer ao negócio.
func TotalDuration(
	ctx context.Context,
	repo ServiceGetter,
	businessID uint,
	items []models.LineItem,
) (int, error) {

	total := 0
	for _, it := range items {
		if it.Quantity < 1 {
			return 0, httperr.ErrValidation("invalid_quantity", "Quantity must be at least 1")
		}

		svc, err := repo.GetService(ctx, businessID, it.ServiceID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return 0, httperr.ErrNotFound(
					"service_not_found",
					fmt.Sprintf("Service %d not found", it.ServiceID),
				)
			}
			return 0, err
		}

		total += svc.DurationMin * it.Quantity
	}

	if total <= 0 {
		return 0, httperr.ErrValidation("missing_total_duration", "Total service duration is required")
	}
	return total, nil
}
