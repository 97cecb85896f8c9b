package earnings

import (
	"log/slog"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/booking-platform/internal/models"
)

var ForecastLabels = []string{"Next Week", "Next Month", "Next Year"}

var forecastDays = []int64{7, 30, 365}

type Forecast struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}

type Summary struct {
	Daily    decimal.Decimal `json:"daily"`
	Weekly   decimal.Decimal `json:"weekly"`
	Monthly  decimal.Decimal `json:"monthly"`
	Forecast Forecast        `json:"forecast"`
}

type ServiceEarnings struct {
	ServiceID uint            `json:"service_id"`
	Title     string          `json:"title"`
	Daily     decimal.Decimal `json:"daily"`
	Weekly    decimal.Decimal `json:"weekly"`
	Monthly   decimal.Decimal `json:"monthly"`
	Total     decimal.Decimal `json:"total"`
}

// ageDays arredonda para baixo, inclusive para datas futuras (-0.5 dia => -1).
func ageDays(now, start time.Time) int {
	return int(math.Floor(now.Sub(start).Hours() / 24))
}

type windows struct {
	daily, weekly, monthly decimal.Decimal
}

// add acumula nas janelas; diário ⊂ semanal ⊂ mensal.
func (w *windows) add(age int, amount decimal.Decimal) {
	if age < 1 {
		w.daily = w.daily.Add(amount)
	}
	if age < 7 {
		w.weekly = w.weekly.Add(amount)
	}
	if age < 30 {
		w.monthly = w.monthly.Add(amount)
	}
}

func priceIndex(services []models.Service) map[uint]models.Service {
	idx := make(map[uint]models.Service, len(services))
	for _, s := range services {
		idx[s.ID] = s
	}
	return idx
}

// Compute usa o preço atual de cada serviço, não um snapshot histórico.
// Serviços que não existem mais são ignorados.
func Compute(completed []models.Appointment, services []models.Service, now time.Time) Summary {
	idx := priceIndex(services)

	var w windows
	counted := int64(0)

	for _, ap := range completed {
		if ap.StartTime == nil {
			continue
		}

		amount := decimal.Zero
		for _, it := range ap.Services {
			svc, ok := idx[it.ServiceID]
			if !ok {
				slog.Warn("earnings: unknown service skipped",
					"appointment_id", ap.ID,
					"service_id", it.ServiceID,
				)
				continue
			}
			amount = amount.Add(svc.Cost.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}

		w.add(ageDays(now, *ap.StartTime), amount)
		counted++
	}

	out := Summary{
		Daily:   w.daily,
		Weekly:  w.weekly,
		Monthly: w.monthly,
		Forecast: Forecast{
			Labels: []string{},
			Data:   []decimal.Decimal{},
		},
	}

	if counted == 0 {
		return out
	}

	avg := w.daily.Div(decimal.NewFromInt(counted))
	out.Forecast.Labels = append(out.Forecast.Labels, ForecastLabels...)
	for _, d := range forecastDays {
		out.Forecast.Data = append(out.Forecast.Data, avg.Mul(decimal.NewFromInt(d)).Round(2))
	}
	return out
}

// ByService quebra os mesmos totais por serviço, na ordem do catálogo.
func ByService(completed []models.Appointment, services []models.Service, now time.Time) []ServiceEarnings {
	idx := priceIndex(services)
	acc := make(map[uint]*windows, len(services))
	totals := make(map[uint]decimal.Decimal, len(services))

	for _, ap := range completed {
		if ap.StartTime == nil {
			continue
		}
		age := ageDays(now, *ap.StartTime)

		for _, it := range ap.Services {
			svc, ok := idx[it.ServiceID]
			if !ok {
				continue
			}
			amount := svc.Cost.Mul(decimal.NewFromInt(int64(it.Quantity)))

			w, ok := acc[svc.ID]
			if !ok {
				w = &windows{}
				acc[svc.ID] = w
			}
			w.add(age, amount)
			totals[svc.ID] = totals[svc.ID].Add(amount)
		}
	}

	out := make([]ServiceEarnings, 0, len(services))
	for _, svc := range services {
		row := ServiceEarnings{ServiceID: svc.ID, Title: svc.Title, Total: totals[svc.ID]}
		if w, ok := acc[svc.ID]; ok {
			row.Daily, row.Weekly, row.Monthly = w.daily, w.weekly, w.monthly
		}
		out = append(out, row)
	}
	return out
}
