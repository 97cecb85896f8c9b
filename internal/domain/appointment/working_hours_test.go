package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

type hoursByWeekday map[int]*models.WorkingHours

func (h hoursByWeekday) GetWorkingHours(_ context.Context, _ uint, weekday int) (*models.WorkingHours, error) {
	wh, ok := h[weekday]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return wh, nil
}

func TestCheckBookable(t *testing.T) {
	// 2024-06-03 é segunda
	hours := hoursByWeekday{1: {Weekday: 1, StartTime: "09:00", EndTime: "18:00"}}
	now := at("2024-06-03", "11:00")
	ctx := context.Background()

	check := func(day, from, to string) error {
		return CheckBookable(ctx, hours, 1, at(day, from), at(day, to), now)
	}

	assert.NoError(t, check("2024-06-03", "14:00", "15:00"))

	assert.True(t, httperr.IsBusiness(check("2024-06-03", "10:00", "10:30"), "slot_in_past"))
	assert.True(t, httperr.IsBusiness(check("2024-06-03", "11:00", "11:30"), "slot_in_past"))

	assert.True(t, httperr.IsBusiness(check("2024-06-10", "03:00", "03:45"), "outside_working_hours"))
	assert.True(t, httperr.IsBusiness(check("2024-06-10", "17:30", "18:15"), "outside_working_hours"))

	err := check("2024-06-04", "10:00", "11:00")
	assert.Equal(t, httperr.KindNotConfigured, httperr.KindOf(err))
}
