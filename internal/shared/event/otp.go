package event

import "time"

// OTPCodeMessage asks the notification module to deliver a one-time code.
// It is passed in-process; codes never travel over the broker.
type OTPCodeMessage struct {
	CitizenID int64     `json:"citizen_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Purpose   string    `json:"purpose"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
