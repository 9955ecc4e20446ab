package entity

import "github.com/shopspring/decimal"

type Service struct {
	ID                int64           `json:"id,string"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Fee               decimal.Decimal `json:"fee"`
	RequiredDocuments []string        `json:"required_documents"`
	Enabled           bool            `json:"enabled"`
}

// Assignment is the division and officer serving a citizen.
type Assignment struct {
	CitizenID   int64
	DivisionID  int64
	OfficerID   int64
	OfficerName string
}

// Requester is the subset of a citizen the booking rules look at.
type Requester struct {
	ID            int64
	Email         string
	FullName      string
	EmailVerified bool
	DivisionID    *int64
	Active        bool
}
