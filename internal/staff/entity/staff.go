package entity

import (
	"strings"
	"time"
)

type StaffStatus string

const (
	StaffStatusActive    StaffStatus = "Active"
	StaffStatusSuspended StaffStatus = "Suspended"
)

type Staff struct {
	ID           int64
	Email        string
	FullName     string
	Role         string
	DivisionID   *int64
	PasswordHash string
	Status       StaffStatus
	// TOTPSecret is the sealed seed; nil until setup.
	TOTPSecret  []byte
	TOTPEnabled bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s Staff) IsActive() bool { return s.Status == StaffStatusActive }

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
