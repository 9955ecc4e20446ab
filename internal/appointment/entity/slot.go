package entity

import "time"

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "Available"
	SlotStatusBooked    SlotStatus = "Booked"
)

func (s SlotStatus) String() string { return string(s) }

// TimeSlot is a window of an officer's day. StartsAt and EndsAt carry the
// slot date.
type TimeSlot struct {
	ID            int64
	OfficerID     int64
	Date          time.Time
	StartsAt      time.Time
	EndsAt        time.Time
	Status        SlotStatus
	AppointmentID *int64
}

// SplitWindow cuts [start, end) into consecutive slots of d. A trailing
// remainder shorter than d is dropped.
func SplitWindow(start, end time.Time, d time.Duration) [][2]time.Time {
	if d <= 0 || !start.Before(end) {
		return nil
	}

	var out [][2]time.Time
	for from := start; !from.Add(d).After(end); from = from.Add(d) {
		out = append(out, [2]time.Time{from, from.Add(d)})
	}
	return out
}

// DateOf truncates t to its calendar day in UTC, the zone dates travel in.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
