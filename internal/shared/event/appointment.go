package event

import "time"

const (
	AppointmentConfirmedTopic string = "appointment.confirmed"
	AppointmentCancelledTopic string = "appointment.cancelled"

	// NotificationGroup is the consumer group of the notification module.
	NotificationGroup string = "notification"
)

// HeaderCorrelationID carries the request correlation id across the broker.
const HeaderCorrelationID string = "cID"

type AppointmentMessage struct {
	AppointmentID int64     `json:"appointment_id,string"`
	CitizenID     int64     `json:"citizen_id,string"`
	CitizenEmail  string    `json:"citizen_email"`
	CitizenName   string    `json:"citizen_name"`
	ServiceCode   string    `json:"service_code"`
	ServiceName   string    `json:"service_name"`
	OfficerName   string    `json:"officer_name"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time,omitempty"`
	EndTime       string    `json:"end_time,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
