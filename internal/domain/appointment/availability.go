package appointment

import (
	"time"

	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

const SlotGranularity = 60 * time.Minute

type SlotStatus string

const (
	SlotFree     SlotStatus = "free"
	SlotOccupied SlotStatus = "occupied"
)

type Slot struct {
	Time   string     `json:"time"`
	Status SlotStatus `json:"status"`
}

type AvailabilityInput struct {
	BusinessID uint
	Date       time.Time
}

// Interval é semiaberto: [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && i.Start.Before(end)
}

// BusyIntervals descarta agendamentos sem agenda ou que não bloqueiam.
func BusyIntervals(aps []models.Appointment) []Interval {
	out := make([]Interval, 0, len(aps))
	for _, ap := range aps {
		if !ap.HasSchedule() || !Status(ap.Status).BlocksSlot() {
			continue
		}
		out = append(out, Interval{Start: *ap.StartTime, End: *ap.EndTime})
	}
	return out
}

// AvailableSlots gera candidatos de hora em hora em [open, closing),
// mantém só os estritamente futuros e marca os que colidem com busy.
func AvailableSlots(open, closing, now time.Time, busy []Interval) []Slot {
	slots := []Slot{}
	loc := open.Location()

	for cur := open; cur.Before(closing); cur = cur.Add(SlotGranularity) {
		if !cur.After(now) {
			continue
		}

		status := SlotFree
		end := cur.Add(SlotGranularity)
		for _, b := range busy {
			if b.Overlaps(cur, end) {
				status = SlotOccupied
				break
			}
		}

		slots = append(slots, Slot{
			Time:   cur.In(loc).Format(timezone.HourLayout),
			Status: status,
		})
	}

	return slots
}
