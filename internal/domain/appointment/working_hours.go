package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

// DayWindow converte o expediente "HH:MM" no dia informado (fuso de day).
func DayWindow(wh *models.WorkingHours, day time.Time) (time.Time, time.Time, error) {
	open, err := parseHM(wh.StartTime, day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	closing, err := parseHM(wh.EndTime, day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !closing.After(open) {
		return time.Time{}, time.Time{}, httperr.ErrValidation("invalid_working_hours", "Start time must be before end time")
	}
	return open, closing, nil
}

func parseHM(hm string, day time.Time) (time.Time, error) {
	t, err := time.Parse(timezone.HourLayout, hm)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_working_hours", "Working hours must use HH:MM")
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}

// IsWithinWorkingHours valida se [start, end) cabe no expediente do dia.
func IsWithinWorkingHours(wh *models.WorkingHours, start, end time.Time) bool {
	open, closing, err := DayWindow(wh, start)
	if err != nil {
		return false
	}
	return !start.Before(open) && !end.After(closing)
}

// ValidateWorkingHours é usado na escrita do catálogo.
func ValidateWorkingHours(wh *models.WorkingHours) error {
	if wh.Weekday < 0 || wh.Weekday > 6 {
		return httperr.ErrValidation("invalid_weekday", "Weekday must be between 0 and 6")
	}
	_, _, err := DayWindow(wh, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	return err
}

type WorkingHoursGetter interface {
	GetWorkingHours(ctx context.Context, businessID uint, weekday int) (*models.WorkingHours, error)
}

// CheckBookable é a regra comum de reserva e remarcação: início no
// futuro e [start, end) dentro do expediente do dia.
func CheckBookable(
	ctx context.Context,
	repo WorkingHoursGetter,
	businessID uint,
	start, end, now time.Time,
) error {

	if !start.After(now) {
		return httperr.ErrValidation("slot_in_past", "The selected time is in the past")
	}

	wh, err := repo.GetWorkingHours(ctx, businessID, int(start.Weekday()))
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return httperr.ErrNotConfigured()
		}
		return err
	}
	if !IsWithinWorkingHours(wh, start, end) {
		return httperr.ErrValidation("outside_working_hours", "The selected time is outside working hours")
	}
	return nil
}
