package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTransition = errors.New("appointment: invalid status transition")

	// ErrSlotNotFound is a slot that does not exist or belongs to another officer.
	ErrSlotNotFound = errors.New("appointment: time slot not found")
	// ErrSlotTaken is a slot that exists but is already booked.
	ErrSlotTaken = errors.New("appointment: time slot already booked")
	// ErrSlotDateMismatch is a slot on another day than the appointment.
	ErrSlotDateMismatch = errors.New("appointment: time slot is on another date")
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

func (s AppointmentStatus) String() string { return string(s) }

type AppointmentEvent string

const (
	AppointmentEventBook   AppointmentEvent = "Book"
	AppointmentEventCancel AppointmentEvent = "Cancel"
)

var appointmentTransitions = map[AppointmentStatus]map[AppointmentEvent]AppointmentStatus{
	AppointmentStatusPending: {
		AppointmentEventBook:   AppointmentStatusConfirmed,
		AppointmentEventCancel: AppointmentStatusCancelled,
	},
	AppointmentStatusConfirmed: {
		AppointmentEventCancel: AppointmentStatusCancelled,
	},
}

// Apply returns the status reached from s through ev.
func (s AppointmentStatus) Apply(ev AppointmentEvent) (AppointmentStatus, error) {
	next, ok := appointmentTransitions[s][ev]
	if !ok {
		return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, s)
	}
	return next, nil
}

type Appointment struct {
	ID            int64
	CitizenID     int64
	ServiceID     int64
	OfficerID     int64
	RequestedDate time.Time
	Purpose       string
	Status        AppointmentStatus
	SlotID        *int64
	CancelReason  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Read side, filled by listing queries.
	ServiceCode string
	ServiceName string
	Slot        *TimeSlot
}

// Transition is the result of a guarded lifecycle change.
type Transition struct {
	Appointment Appointment
	Slot        *TimeSlot
}

// Guard inspects an appointment under its row lock and returns the status it
// moves to, or a business error that aborts the change.
type Guard func(a Appointment) (AppointmentStatus, error)

// AppointmentDetail is everything a notification about an appointment needs.
type AppointmentDetail struct {
	Appointment  Appointment
	CitizenEmail string
	CitizenName  string
	OfficerName  string
}
