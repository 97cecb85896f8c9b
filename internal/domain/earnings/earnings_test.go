package earnings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-platform/internal/models"
)

func completedAt(id uint, start time.Time, items ...models.LineItem) models.Appointment {
	return models.Appointment{ID: id, Status: "completed", StartTime: &start, Services: items}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCumulativeWindows(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	services := []models.Service{{ID: 1, Title: "Haircut", Cost: dec("100")}}

	aps := []models.Appointment{
		completedAt(1, now.Add(-2*time.Hour), models.LineItem{ServiceID: 1, Quantity: 1}),
		completedAt(2, now.AddDate(0, 0, -10), models.LineItem{ServiceID: 1, Quantity: 1}),
	}

	got := Compute(aps, services, now)

	assert.True(t, got.Daily.Equal(dec("100")), got.Daily.String())
	assert.True(t, got.Weekly.Equal(dec("100")), got.Weekly.String())
	assert.True(t, got.Monthly.Equal(dec("200")), got.Monthly.String())
}

func TestForecastFromDailyAverage(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	services := []models.Service{{ID: 1, Cost: dec("100")}}
	aps := []models.Appointment{
		completedAt(1, now.Add(-time.Hour), models.LineItem{ServiceID: 1, Quantity: 1}),
		completedAt(2, now.AddDate(0, 0, -3), models.LineItem{ServiceID: 1, Quantity: 1}),
	}

	got := Compute(aps, services, now)

	require.Equal(t, ForecastLabels, got.Forecast.Labels)
	require.Len(t, got.Forecast.Data, 3)
	assert.True(t, got.Forecast.Data[0].Equal(dec("350")))
	assert.True(t, got.Forecast.Data[1].Equal(dec("1500")))
	assert.True(t, got.Forecast.Data[2].Equal(dec("18250")))
}

func TestNoCompletedAppointmentsHasEmptyForecast(t *testing.T) {
	got := Compute(nil, nil, time.Now())

	assert.True(t, got.Daily.IsZero())
	assert.Empty(t, got.Forecast.Labels)
	assert.Empty(t, got.Forecast.Data)
}

func TestQuantityAndUnknownServices(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	services := []models.Service{{ID: 1, Cost: dec("12.50")}}
	aps := []models.Appointment{
		completedAt(1, now.Add(-time.Hour),
			models.LineItem{ServiceID: 1, Quantity: 3},
			models.LineItem{ServiceID: 99, Quantity: 1},
		),
	}

	got := Compute(aps, services, now)
	assert.True(t, got.Daily.Equal(dec("37.5")), got.Daily.String())
}

func TestFutureDatedCountsAsDaily(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	services := []models.Service{{ID: 1, Cost: dec("10")}}
	aps := []models.Appointment{
		completedAt(1, now.Add(12*time.Hour), models.LineItem{ServiceID: 1, Quantity: 1}),
	}

	assert.True(t, Compute(aps, services, now).Daily.Equal(dec("10")))
}

func TestByService(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	services := []models.Service{
		{ID: 1, Title: "Haircut", Cost: dec("100")},
		{ID: 2, Title: "Shave", Cost: dec("40")},
		{ID: 3, Title: "Massage", Cost: dec("70")},
	}
	aps := []models.Appointment{
		completedAt(1, now.Add(-time.Hour),
			models.LineItem{ServiceID: 1, Quantity: 1},
			models.LineItem{ServiceID: 2, Quantity: 2},
		),
		completedAt(2, now.AddDate(0, 0, -40), models.LineItem{ServiceID: 2, Quantity: 1}),
	}

	rows := ByService(aps, services, now)
	require.Len(t, rows, 3)

	assert.Equal(t, "Haircut", rows[0].Title)
	assert.True(t, rows[0].Daily.Equal(dec("100")))

	assert.True(t, rows[1].Daily.Equal(dec("80")))
	assert.True(t, rows[1].Monthly.Equal(dec("80")))
	assert.True(t, rows[1].Total.Equal(dec("120")))

	assert.True(t, rows[2].Total.IsZero())
}
