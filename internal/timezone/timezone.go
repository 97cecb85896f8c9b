package timezone

import (
	"log/slog"
	"strings"
	"time"

	// embute a base IANA (containers sem tzdata)
	_ "time/tzdata"
)

const DefaultTimezone = "Europe/Moscow"

const (
	DateLayout     = "2006-01-02"
	HourLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		slog.Warn("tzdata unavailable, falling back to UTC", "tz", tz)
		return time.UTC
	}
	return loc
}

// ParseDate interpreta "YYYY-MM-DD" como meia-noite local.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseLocal interpreta data + hora como horário de parede do negócio.
func ParseLocal(date, hm string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, date+" "+hm, loc)
}

// ParseDateTime aceita "YYYY-MM-DD HH:MM" num campo só ou data e hora
// separadas.
func ParseDateTime(date, hm string, loc *time.Location) (time.Time, error) {
	date, hm = strings.TrimSpace(date), strings.TrimSpace(hm)
	if hm == "" {
		return time.ParseInLocation(DateTimeLayout, date, loc)
	}
	return ParseLocal(date, hm, loc)
}

// Localize trata horários "naive" (UTC sem offset, como vêm do banco sem
// timezone) como já locais e converte os demais.
func Localize(t time.Time, loc *time.Location) time.Time {
	if t.Location() == time.UTC {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	}
	return t.In(loc)
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func Format(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(DateTimeLayout)
}
