package entity

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTransition = errors.New("document: invalid status transition")

type DocumentStatus string

const (
	DocumentStatusSubmitted DocumentStatus = "Submitted"
	DocumentStatusApproved  DocumentStatus = "Approved"
	DocumentStatusRejected  DocumentStatus = "Rejected"
)

func (s DocumentStatus) String() string { return string(s) }

// Apply moves a submitted document to a review outcome. Reviewed documents
// are final.
func (s DocumentStatus) Apply(outcome DocumentStatus) (DocumentStatus, error) {
	if s != DocumentStatusSubmitted || (outcome != DocumentStatusApproved && outcome != DocumentStatusRejected) {
		return s, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s, outcome)
	}
	return outcome, nil
}

type Document struct {
	ID            int64
	CitizenID     int64
	AppointmentID *int64
	Kind          string
	Filename      string
	ContentType   string
	SizeBytes     int64
	ObjectKey     string
	Status        DocumentStatus
	ReviewNote    *string
	ReviewerID    *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
