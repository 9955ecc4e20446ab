package inbound

import (
	"net/http"
	"time"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/shopspring/decimal"
)

type ServiceResponse struct {
	ID                int64           `json:"id,string"`
	Code              string          `json:"code" example:"GNS001"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Fee               decimal.Decimal `json:"fee" swaggertype:"string" example:"250.00"`
	RequiredDocuments []string        `json:"required_documents"`
}

type SlotResponse struct {
	ID        int64  `json:"id,string"`
	Date      string `json:"date" example:"2025-08-20"`
	StartTime string `json:"start_time" example:"10:00"`
	EndTime   string `json:"end_time" example:"10:30"`
	Status    string `json:"status"`
}

type CreateAppointmentRequest struct {
	ServiceCode string `json:"service_code" example:"GNS001"`
	ServiceID   int64  `json:"service_id,string,omitempty"`
	Date        string `json:"date" example:"2025-08-20"`
	Purpose     string `json:"purpose"`
}

type AppointmentResponse struct {
	ID           int64         `json:"id,string"`
	ServiceCode  string        `json:"service_code"`
	ServiceName  string        `json:"service_name"`
	Date         string        `json:"date"`
	Purpose      string        `json:"purpose"`
	Status       string        `json:"status"`
	Slot         *SlotResponse `json:"slot"`
	CancelReason *string       `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type CreateAppointmentResponse struct {
	AppointmentResponse
}

func (CreateAppointmentResponse) StatusCode() int { return http.StatusCreated }

func (CreateAppointmentResponse) Message() string {
	return "Appointment requested. Pick a time slot to confirm it."
}

type BookSlotRequest struct {
	SlotID int64 `json:"slot_id,string"`
}

type BookSlotResponse struct {
	AppointmentResponse
}

func (BookSlotResponse) Message() string { return "Appointment confirmed" }

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type CancelAppointmentResponse struct {
	AppointmentResponse
}

func (CancelAppointmentResponse) Message() string { return "Appointment cancelled" }

type CreateTimeSlotsRequest struct {
	Date            string `json:"date" example:"2025-08-20"`
	Start           string `json:"start" example:"09:00"`
	End             string `json:"end" example:"12:00"`
	DurationMinutes int    `json:"duration_minutes" example:"30"`
}

type CreateTimeSlotsResponse []SlotResponse

func (CreateTimeSlotsResponse) StatusCode() int { return http.StatusCreated }

func toSlotResponse(s entity.TimeSlot) SlotResponse {
	return SlotResponse{
		ID:        s.ID,
		Date:      s.Date.Format(time.DateOnly),
		StartTime: s.StartsAt.Format("15:04"),
		EndTime:   s.EndsAt.Format("15:04"),
		Status:    s.Status.String(),
	}
}

func toAppointmentResponse(a entity.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:           a.ID,
		ServiceCode:  a.ServiceCode,
		ServiceName:  a.ServiceName,
		Date:         a.RequestedDate.Format(time.DateOnly),
		Purpose:      a.Purpose,
		Status:       a.Status.String(),
		CancelReason: a.CancelReason,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.Slot != nil {
		slot := toSlotResponse(*a.Slot)
		resp.Slot = &slot
	}
	return resp
}
