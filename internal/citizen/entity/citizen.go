package entity

import (
	"strings"
	"time"
)

type CitizenStatus string

const (
	CitizenStatusActive    CitizenStatus = "Active"
	CitizenStatusSuspended CitizenStatus = "Suspended"
)

func (s CitizenStatus) String() string { return string(s) }

type Citizen struct {
	ID              int64
	NIC             string
	FullName        string
	Email           string
	Phone           string
	PasswordHash    string
	DivisionID      *int64
	Status          CitizenStatus
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (c Citizen) IsActive() bool { return c.Status == CitizenStatusActive }

func (c Citizen) IsEmailVerified() bool { return c.EmailVerifiedAt != nil }

type Division struct {
	ID        int64
	Code      string
	Name      string
	OfficerID *int64
}

// Profile is a citizen together with the division and officer serving them.
type Profile struct {
	Citizen     Citizen
	Division    *Division
	OfficerName string
}

type RefreshToken struct {
	ID         int64
	CitizenID  int64
	TokenHash  string
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	ReplacedBy *int64
}

func (t RefreshToken) IsRevoked() bool { return t.RevokedAt != nil }

// WasRotated is true for a token that was exchanged for a newer one. Seeing it
// again means it leaked.
func (t RefreshToken) WasRotated() bool { return t.ReplacedBy != nil }

// NormalizeNIC upper-cases the letter suffix of old format numbers.
func NormalizeNIC(nic string) string {
	return strings.ToUpper(strings.TrimSpace(nic))
}

// MaskEmail keeps the first character of the local part, for example
// "n***@example.lk".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	return local[:1] + "***@" + domain
}
