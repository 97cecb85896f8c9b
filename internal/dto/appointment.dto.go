package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

const (
	UnknownService = "Unknown Service"
	UnknownCost    = "Unknown Cost"
)

type LineItemDTO struct {
	ServiceID uint   `json:"service_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Cost      string `json:"cost"`
	Duration  int    `json:"duration_min"`
}

type AppointmentListDTO struct {
	ID          uint   `json:"id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`

	Services        []LineItemDTO `json:"services"`
	TotalServiceMin int           `json:"total_service_min"`
	NumServices     int           `json:"num_services"`
	TotalCost       string        `json:"total_cost"`

	RejectionReason    string `json:"rejection_reason,omitempty"`
	ReportDetails      string `json:"report_details,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

type ChangeRequestDTO struct {
	ID            uint          `json:"id"`
	AppointmentID uint          `json:"appointment_id"`
	ClientName    string        `json:"client_name"`
	ClientPhone   string        `json:"client_phone"`
	ClientEmail   string        `json:"client_email"`
	StartTime     string        `json:"requested_start"`
	EndTime       string        `json:"requested_end"`
	Services      []LineItemDTO `json:"requested_services"`
	TotalMin      int           `json:"requested_total_min"`
	Status        string        `json:"status"`
}

// Catalog indexa os serviços do negócio por id.
type Catalog map[uint]models.Service

func NewCatalog(services []models.Service) Catalog {
	c := make(Catalog, len(services))
	for _, s := range services {
		c[s.ID] = s
	}
	return c
}

// LineItems resolve cada item no catálogo atual. Serviço ausente vira
// placeholder e não entra no total.
func (c Catalog) LineItems(items []models.LineItem) ([]LineItemDTO, decimal.Decimal) {
	out := make([]LineItemDTO, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		svc, ok := c[it.ServiceID]
		if !ok {
			out = append(out, LineItemDTO{
				ServiceID: it.ServiceID,
				Title:     UnknownService,
				Quantity:  it.Quantity,
				Cost:      UnknownCost,
			})
			continue
		}

		out = append(out, LineItemDTO{
			ServiceID: it.ServiceID,
			Title:     svc.Title,
			Quantity:  it.Quantity,
			Cost:      svc.Cost.StringFixed(2),
			Duration:  svc.DurationMin,
		})
		total = total.Add(svc.Cost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return out, total
}

func (c Catalog) Appointment(ap models.Appointment, loc *time.Location) AppointmentListDTO {
	items, total := c.LineItems(ap.Services)
	return AppointmentListDTO{
		ID:                 ap.ID,
		StartTime:          timezone.Format(ap.StartTime, loc),
		EndTime:            timezone.Format(ap.EndTime, loc),
		Status:             ap.Status,
		ClientName:         ap.ClientName,
		ClientPhone:        ap.ClientPhone,
		ClientEmail:        ap.ClientEmail,
		Services:           items,
		TotalServiceMin:    ap.TotalServiceMin,
		NumServices:        ap.NumServices,
		TotalCost:          total.StringFixed(2),
		RejectionReason:    ap.RejectionReason,
		ReportDetails:      ap.ReportDetails,
		CancellationReason: ap.CancellationReason,
	}
}

func (c Catalog) Appointments(aps []models.Appointment, loc *time.Location) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, c.Appointment(ap, loc))
	}
	return out
}

// ChangeRequest formata os horários pedidos como parede do negócio.
func (c Catalog) ChangeRequest(cr models.ChangeRequest, loc *time.Location) ChangeRequestDTO {
	items, _ := c.LineItems(cr.RequestedServices)
	start := timezone.Localize(cr.RequestedStart, loc)
	end := timezone.Localize(cr.RequestedEnd, loc)

	return ChangeRequestDTO{
		ID:            cr.ID,
		AppointmentID: cr.AppointmentID,
		ClientName:    cr.ClientName,
		ClientPhone:   cr.ClientPhone,
		ClientEmail:   cr.ClientEmail,
		StartTime:     timezone.Format(&start, loc),
		EndTime:       timezone.Format(&end, loc),
		Services:      items,
		TotalMin:      cr.RequestedTotalMin,
		Status:        cr.Status,
	}
}
