package appointment

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

func loadBusiness(
	ctx context.Context,
	repo domain.Repository,
	businessID uint,
) (*models.Business, error) {

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
