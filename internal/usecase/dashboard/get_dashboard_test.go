package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/domain/appointment/appointmenttest"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

func TestDashboardSplitsReservationsAndCounts(t *testing.T) {
	now := time.Date(2024, 6, 20, 18, 0, 0, 0, time.UTC)
	repo := appointmenttest.NewRepo()
	b := repo.AddBusiness(models.Business{Name: "Shop", Slug: "shop", Timezone: "UTC"})
	svc := repo.AddService(models.Service{BusinessID: b.ID, Title: "Cut", Cost: decimal.NewFromInt(40), DurationMin: 30})

	add := func(status domain.Status, start time.Time) {
		end := start.Add(30 * time.Minute)
		repo.AddAppointment(models.Appointment{
			BusinessID: b.ID,
			StartTime:  &start,
			EndTime:    &end,
			Services:   []models.LineItem{{ServiceID: svc.ID, Quantity: 2}},
			Status:     string(status),
		})
	}

	add(domain.StatusPending, now.Add(24*time.Hour))
	add(domain.StatusArrived, now.Add(-time.Hour))
	add(domain.StatusCompleted, now.Add(-3*time.Hour))
	add(domain.StatusCancelled, now.Add(48*time.Hour))
	add(domain.StatusRejected, now.Add(72*time.Hour))
	add(domain.StatusReported, now.Add(-5*time.Hour))
	add(domain.StatusAccepted, now.Add(96*time.Hour))

	d, err := NewGetDashboard(repo, timezone.FixedClock{At: now}).Execute(context.Background(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), d.Statistics.Pending)
	assert.Equal(t, int64(1), d.Statistics.PendingPayment)
	assert.Equal(t, int64(1), d.Statistics.Completed)
	assert.Equal(t, int64(1), d.Statistics.Cancelled)

	assert.Equal(t, int64(1), d.Statistics.Rejected)
	assert.Equal(t, int64(1), d.Statistics.Reported)

	assert.Len(t, d.Reservations.Active, 3)
	for _, v := range d.Reservations.Active {
		assert.NotContains(t, []string{"rejected", "reported"}, v.Status)
	}
	assert.Len(t, d.Reservations.Closed, 2)
	assert.Len(t, d.Reservations.Completed, 1)
	assert.Len(t, d.Reservations.Cancelled, 1)

	assert.True(t, d.Earnings.Daily.Equal(decimal.NewFromInt(80)))
	require.Len(t, d.ServiceEarnings, 1)
	assert.True(t, d.ServiceEarnings[0].Total.Equal(decimal.NewFromInt(80)))
	assert.Empty(t, d.ChangeRequests)
}
