package entity

import (
	"fmt"
	"strings"
	"time"
)

// Kind names what an outgoing email is about.
type Kind string

const (
	KindOTP                  Kind = "otp"
	KindAppointmentConfirmed Kind = "appointment_confirmed"
	KindAppointmentCancelled Kind = "appointment_cancelled"
)

func (k Kind) String() string { return string(k) }

// Email is a rendered plain text message for one recipient.
type Email struct {
	Kind    Kind
	To      string
	Subject string
	Body    string
}

// OTP is a one-time code to deliver.
type OTP struct {
	Email     string
	FullName  string
	Purpose   string
	Code      string
	ExpiresAt time.Time
}

var otpSubjects = map[string]string{
	"Login":             "Your sign-in code",
	"PasswordReset":     "Your password reset code",
	"EmailVerification": "Verify your email address",
}

func (o OTP) Render(loc *time.Location) Email {
	subject, ok := otpSubjects[o.Purpose]
	if !ok {
		subject = "Your verification code"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", greeting(o.FullName))
	fmt.Fprintf(&b, "Your code is %s.\n", o.Code)
	fmt.Fprintf(&b, "It is valid until %s and can be used once.\n\n", o.ExpiresAt.In(loc).Format("2006-01-02 15:04 MST"))
	b.WriteString("If you did not request this code, you can ignore this email.\n")

	return Email{Kind: KindOTP, To: o.Email, Subject: subject, Body: b.String()}
}

// Appointment is the part of an appointment event shown to the citizen.
type Appointment struct {
	AppointmentID int64
	Email         string
	FullName      string
	ServiceCode   string
	ServiceName   string
	OfficerName   string
	Date          string
	StartTime     string
	EndTime       string
	Reason        string
}

func (a Appointment) RenderConfirmed() Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", greeting(a.FullName))
	fmt.Fprintf(&b, "Your appointment #%d for %s (%s) is confirmed.\n\n", a.AppointmentID, a.ServiceName, a.ServiceCode)
	fmt.Fprintf(&b, "Date: %s\n", a.Date)
	if a.StartTime != "" {
		fmt.Fprintf(&b, "Time: %s - %s\n", a.StartTime, a.EndTime)
	}
	if a.OfficerName != "" {
		fmt.Fprintf(&b, "Officer: %s\n", a.OfficerName)
	}
	b.WriteString("\nPlease bring your NIC and the documents listed for the service.\n")

	return Email{
		Kind:    KindAppointmentConfirmed,
		To:      a.Email,
		Subject: fmt.Sprintf("Appointment confirmed: %s on %s", a.ServiceCode, a.Date),
		Body:    b.String(),
	}
}

func (a Appointment) RenderCancelled() Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", greeting(a.FullName))
	fmt.Fprintf(&b, "Your appointment #%d for %s (%s) on %s has been cancelled.\n", a.AppointmentID, a.ServiceName, a.ServiceCode, a.Date)
	if a.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", a.Reason)
	}
	b.WriteString("\nYou can book a new appointment from the portal at any time.\n")

	return Email{
		Kind:    KindAppointmentCancelled,
		To:      a.Email,
		Subject: fmt.Sprintf("Appointment cancelled: %s on %s", a.ServiceCode, a.Date),
		Body:    b.String(),
	}
}

func greeting(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "Citizen"
}
