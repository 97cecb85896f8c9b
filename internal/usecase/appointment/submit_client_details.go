package appointment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

type SubmitClientDetailsInput struct {
	BusinessID uint

	ClientName  string
	ClientEmail string

	// telefone já verificado por OTP (vem do phone token)
	ClientPhone string
}

type SubmitClientDetails struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSubmitClientDetails(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SubmitClientDetails {
	return &SubmitClientDetails{
		repo:  repo,
		audit: audit,
	}
}

func (uc *SubmitClientDetails) Execute(
	ctx context.Context,
	in SubmitClientDetailsInput,
) (*models.Appointment, error) {

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

	if _, err := loadBusiness(ctx, uc.repo, in.BusinessID); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		BusinessID:  in.BusinessID,
		ClientName:  name,
		ClientEmail: email,
		ClientPhone: phone,
		Status:      string(domain.StatusClientDetailsProvided),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		Action:     "client_details_submitted",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
