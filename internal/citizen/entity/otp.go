package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/lankagov/gnportal/internal/pkg/valueobject"
)

var ErrInvalidTransition = errors.New("citizen: invalid otp status transition")

// OTPPurpose scopes a code to the flow that requested it. A code issued for
// one purpose never validates another.
type OTPPurpose string

const (
	OTPPurposeLogin             OTPPurpose = "Login"
	OTPPurposePasswordReset     OTPPurpose = "PasswordReset"
	OTPPurposeEmailVerification OTPPurpose = "EmailVerification"
)

func (p OTPPurpose) String() string { return string(p) }

func (p OTPPurpose) IsValid() bool {
	switch p {
	case OTPPurposeLogin, OTPPurposePasswordReset, OTPPurposeEmailVerification:
		return true
	default:
		return false
	}
}

// Subject is the email subject line used when the code is delivered.
func (p OTPPurpose) Subject() string {
	switch p {
	case OTPPurposeLogin:
		return "Your login code"
	case OTPPurposePasswordReset:
		return "Your password reset code"
	case OTPPurposeEmailVerification:
		return "Verify your email address"
	default:
		return "Your verification code"
	}
}

type OTPStatus string

const (
	OTPStatusPending  OTPStatus = "Pending"
	OTPStatusVerified OTPStatus = "Verified"
	OTPStatusExpired  OTPStatus = "Expired"
)

func (s OTPStatus) String() string { return string(s) }

func (s OTPStatus) IsTerminal() bool {
	return s == OTPStatusVerified || s == OTPStatusExpired
}

// OTPEvent is a named transition of an OTP record.
type OTPEvent string

const (
	// OTPEventVerify is a matching code presented before expiry.
	OTPEventVerify OTPEvent = "Verify"
	// OTPEventExpire is a code past its expiry, seen on read or by the sweeper.
	OTPEventExpire OTPEvent = "Expire"
	// OTPEventSupersede is a newer code issued for the same citizen and purpose.
	OTPEventSupersede OTPEvent = "Supersede"
)

var otpTransitions = map[OTPStatus]map[OTPEvent]OTPStatus{
	OTPStatusPending: {
		OTPEventVerify:    OTPStatusVerified,
		OTPEventExpire:    OTPStatusExpired,
		OTPEventSupersede: OTPStatusExpired,
	},
}

// Apply returns the status reached from s through ev. Terminal statuses
// accept no event.
func (s OTPStatus) Apply(ev OTPEvent) (OTPStatus, error) {
	next, ok := otpTransitions[s][ev]
	if !ok {
		return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, s)
	}
	return next, nil
}

type OTPRecord struct {
	ID         int64
	CitizenID  int64
	CodeHash   string
	Purpose    OTPPurpose
	Status     OTPStatus
	Metadata   valueobject.Metadata
	CreatedAt  time.Time
	ExpiresAt  time.Time
	VerifiedAt *time.Time
}

// IsExpiredAt reports whether the code can no longer be accepted at now.
func (r OTPRecord) IsExpiredAt(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// OTPMessage is what a Notifier delivers to the citizen.
type OTPMessage struct {
	CitizenID int64
	Email     string
	Name      string
	Purpose   OTPPurpose
	Code      string
	ExpiresAt time.Time
}

// RequestMeta describes the caller that asked for a code.
type RequestMeta struct {
	IP        string
	UserAgent string
}

func (m RequestMeta) Metadata() valueobject.Metadata {
	out := valueobject.Metadata{}
	if m.IP != "" {
		out["ip"] = m.IP
	}
	if m.UserAgent != "" {
		out["user_agent"] = m.UserAgent
	}
	return out
}
