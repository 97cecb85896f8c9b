package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

func TestHappyPathToCompleted(t *testing.T) {
	now := time.Now()
	ap := &models.Appointment{Status: string(StatusPending)}

	require.NoError(t, Accept(ap, now))
	require.NoError(t, MarkArrived(ap, now))
	require.NoError(t, Complete(ap, now))

	assert.Equal(t, string(StatusCompleted), ap.Status)
	assert.NotNil(t, ap.AcceptedAt)
	assert.NotNil(t, ap.ArrivedAt)
	assert.NotNil(t, ap.CompletedAt)
}

func TestCompletedOnlyReachableFromArrived(t *testing.T) {
	for _, s := range []Status{
		StatusClientDetailsProvided, StatusPending, StatusAccepted,
		StatusRejected, StatusReported, StatusCancelled, StatusCompleted,
	} {
		ap := &models.Appointment{Status: string(s)}
		err := Complete(ap, time.Now())
		assert.Error(t, err, s)
		assert.Equal(t, string(s), ap.Status)
	}
}

func TestAcceptOnRejectedFails(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPending)}
	require.NoError(t, Reject(ap, "fully booked"))
	assert.Equal(t, "fully booked", ap.RejectionReason)

	err := Accept(ap, time.Now())
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))
	assert.Equal(t, string(StatusRejected), ap.Status)
}

func TestReasonsAreRequired(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPending)}
	assert.True(t, httperr.IsBusiness(Reject(ap, "  "), "missing_reason"))
	assert.Equal(t, string(StatusPending), ap.Status)

	ap.Status = string(StatusAccepted)
	assert.True(t, httperr.IsBusiness(Report(ap, ""), "missing_report_details"))
	require.NoError(t, Report(ap, "client was rude"))
	assert.Equal(t, string(StatusReported), ap.Status)
}

func TestCancelFromAnyNonTerminal(t *testing.T) {
	for _, s := range []Status{
		StatusClientDetailsProvided, StatusPending, StatusAccepted, StatusReported, StatusArrived,
	} {
		ap := &models.Appointment{Status: string(s)}
		require.NoError(t, Cancel(ap, "changed plans", time.Now()), s)
		assert.Equal(t, string(StatusCancelled), ap.Status)
		assert.Equal(t, "changed plans", ap.CancellationReason)
	}

	for _, s := range []Status{StatusRejected, StatusCompleted, StatusCancelled} {
		ap := &models.Appointment{Status: string(s)}
		assert.Error(t, Cancel(ap, "x", time.Now()), s)
	}
}

func TestParseOwnerAction(t *testing.T) {
	a, err := ParseOwnerAction("Paid")
	require.NoError(t, err)
	assert.Equal(t, ActionComplete, a)

	_, err = ParseOwnerAction("cancel")
	assert.True(t, httperr.IsBusiness(err, "invalid_action"))

	_, err = ParseOwnerAction("delete")
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}

func TestReschedule(t *testing.T) {
	start := time.Date(2024, 6, 1, 14, 0, 0, 0, moscow)
	end := start.Add(45 * time.Minute)
	items := []models.LineItem{{ServiceID: 1, Quantity: 1}, {ServiceID: 2, Quantity: 2}}

	oldStart := start.Add(-4 * time.Hour)
	oldEnd := oldStart.Add(30 * time.Minute)

	ap := &models.Appointment{Status: string(StatusAccepted), StartTime: &oldStart, EndTime: &oldEnd}
	require.NoError(t, Reschedule(ap, start, end, items, 45))

	assert.True(t, ap.StartTime.Equal(start))
	assert.True(t, ap.EndTime.Equal(end))
	assert.Equal(t, items, []models.LineItem(ap.Services))
	assert.Equal(t, 2, ap.NumServices)

	closed := &models.Appointment{Status: string(StatusCompleted), StartTime: &oldStart, EndTime: &oldEnd}
	assert.True(t, httperr.IsBusiness(Reschedule(closed, start, end, items, 45), "appointment_closed"))

	unscheduled := &models.Appointment{Status: string(StatusClientDetailsProvided)}
	assert.True(t, httperr.IsBusiness(Reschedule(unscheduled, start, end, items, 45), "appointment_not_scheduled"))
	assert.Nil(t, unscheduled.StartTime)
}
