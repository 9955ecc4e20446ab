package inbound

import (
	"net/http"
	"time"

	"github.com/lankagov/gnportal/internal/document/entity"
)

type DocumentResponse struct {
	ID            int64     `json:"id,string"`
	AppointmentID *int64    `json:"appointment_id,string,omitempty"`
	Kind          string    `json:"kind" example:"nic_copy"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	Status        string    `json:"status"`
	ReviewNote    *string   `json:"review_note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UploadResponse struct {
	DocumentResponse
}

func (UploadResponse) StatusCode() int { return http.StatusCreated }

func (UploadResponse) Message() string { return "Document submitted for review" }

type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Filename  string    `json:"filename"`
}

type ReviewRequest struct {
	Outcome string `json:"outcome" example:"Approved"`
	Note    string `json:"note"`
}

type ReviewResponse struct {
	DocumentResponse
}

func (ReviewResponse) Message() string { return "Review recorded" }

func toDocumentResponse(d entity.Document) DocumentResponse {
	return DocumentResponse{
		ID:            d.ID,
		AppointmentID: d.AppointmentID,
		Kind:          d.Kind,
		Filename:      d.Filename,
		ContentType:   d.ContentType,
		SizeBytes:     d.SizeBytes,
		Status:        d.Status.String(),
		ReviewNote:    d.ReviewNote,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
