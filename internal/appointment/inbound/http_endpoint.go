package inbound

import (
	"github.com/lankagov/gnportal/internal/appointment/usecase"
	"github.com/lankagov/gnportal/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// ListServices returns the enabled service catalogue.
// @Summary List services
// @Tags Appointment
// @Produce json
// @Success 200 {object} router.successResponse{data=[]ServiceResponse}
// @Router /api/v1/services [get]
func (h *HTTPEndpoint) ListServices(r *router.Request) (any, error) {
	list, err := h.uc.ListServices(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]ServiceResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, ServiceResponse{
			ID:                s.ID,
			Code:              s.Code,
			Name:              s.Name,
			Description:       s.Description,
			Fee:               s.Fee,
			RequiredDocuments: s.RequiredDocuments,
		})
	}
	return resp, nil
}

// ListAvailableSlots returns the open slots of the caller's officer.
// @Summary Available time slots
// @Tags Appointment
// @Produce json
// @Security BearerAuth
// @Param date query string true "Day, YYYY-MM-DD"
// @Success 200 {object} router.successResponse{data=[]SlotResponse}
// @Failure 404 {object} router.errorResponse "No officer is assigned to your division"
// @Router /api/v1/slots [get]
func (h *HTTPEndpoint) ListAvailableSlots(r *router.Request) (any, error) {
	list, err := h.uc.ListAvailableSlots(r.Context(), usecase.ListAvailableSlotsInput{Date: r.GetQuery("date")})
	if err != nil {
		return nil, err
	}

	resp := make([]SlotResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, toSlotResponse(s))
	}
	return resp, nil
}

// CreateAppointment opens a pending appointment.
// @Summary Request appointment
// @Description Creates a Pending appointment with the officer of the caller's division. Send Idempotency-Key to make retries safe.
// @Tags Appointment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Client generated key"
// @Param request body CreateAppointmentRequest true "Appointment request"
// @Success 201 {object} router.successResponse{data=CreateAppointmentResponse}
// @Failure 404 {object} router.errorResponse "Service not found"
// @Failure 409 {object} router.errorResponse "Invalid state"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/appointments [post]
func (h *HTTPEndpoint) CreateAppointment(r *router.Request) (any, error) {
	var req CreateAppointmentRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	a, err := h.uc.CreateAppointment(r.Context(), usecase.CreateAppointmentInput{
		ServiceCode:    req.ServiceCode,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Purpose:        req.Purpose,
		IdempotencyKey: r.HeaderValue("Idempotency-Key"),
	})
	if err != nil {
		return nil, err
	}

	return CreateAppointmentResponse{toAppointmentResponse(*a)}, nil
}

// ListAppointments returns the caller's appointments, newest first.
// @Summary My appointments
// @Tags Appointment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=[]AppointmentResponse}
// @Router /api/v1/appointments [get]
func (h *HTTPEndpoint) ListAppointments(r *router.Request) (any, error) {
	list, err := h.uc.ListAppointments(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, toAppointmentResponse(a))
	}
	return resp, nil
}

// GetAppointment returns one appointment of the caller.
// @Summary Appointment detail
// @Tags Appointment
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} router.successResponse{data=AppointmentResponse}
// @Failure 403 {object} router.errorResponse "Appointment does not belong to you"
// @Failure 404 {object} router.errorResponse "Appointment not found"
// @Router /api/v1/appointments/{id} [get]
func (h *HTTPEndpoint) GetAppointment(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	a, err := h.uc.GetAppointment(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return toAppointmentResponse(*a), nil
}

// BookSlot confirms an appointment by claiming a time slot.
// @Summary Book time slot
// @Tags Appointment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body BookSlotRequest true "Slot to claim"
// @Success 200 {object} router.successResponse{data=BookSlotResponse}
// @Failure 404 {object} router.errorResponse "Appointment or time slot not found"
// @Failure 409 {object} router.errorResponse "Time slot is no longer available"
// @Router /api/v1/appointments/{id}/book [post]
func (h *HTTPEndpoint) BookSlot(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req BookSlotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	a, err := h.uc.BookSlot(r.Context(), usecase.BookSlotInput{AppointmentID: id, SlotID: req.SlotID})
	if err != nil {
		return nil, err
	}

	return BookSlotResponse{toAppointmentResponse(*a)}, nil
}

// CancelAppointment cancels an appointment and frees its slot.
// @Summary Cancel appointment
// @Tags Appointment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body CancelAppointmentRequest false "Cancellation reason"
// @Success 200 {object} router.successResponse{data=CancelAppointmentResponse}
// @Failure 409 {object} router.errorResponse "Appointment is already cancelled"
// @Router /api/v1/appointments/{id}/cancel [post]
func (h *HTTPEndpoint) CancelAppointment(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req CancelAppointmentRequest
	if r.ContentLength != 0 {
		if err := r.DecodeBody(&req); err != nil {
			return nil, err
		}
	}

	a, err := h.uc.CancelAppointment(r.Context(), usecase.CancelAppointmentInput{AppointmentID: id, Reason: req.Reason})
	if err != nil {
		return nil, err
	}

	return CancelAppointmentResponse{toAppointmentResponse(*a)}, nil
}

// CreateTimeSlots opens a window of the officer's day.
// @Summary Open time slots
// @Tags Officer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTimeSlotsRequest true "Window to open"
// @Success 201 {object} router.successResponse{data=[]SlotResponse}
// @Failure 409 {object} router.errorResponse "Time slots overlap existing slots"
// @Router /api/v1/officer/slots [post]
func (h *HTTPEndpoint) CreateTimeSlots(r *router.Request) (any, error) {
	var req CreateTimeSlotsRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	slots, err := h.uc.CreateTimeSlots(r.Context(), usecase.CreateTimeSlotsInput{
		Date:            req.Date,
		Start:           req.Start,
		End:             req.End,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return nil, err
	}

	resp := make(CreateTimeSlotsResponse, 0, len(slots))
	for _, s := range slots {
		resp = append(resp, toSlotResponse(s))
	}
	return resp, nil
}

// ListOfficerAppointments is the officer's schedule for a day.
// @Summary Officer schedule
// @Tags Officer
// @Produce json
// @Security BearerAuth
// @Param date query string true "Day, YYYY-MM-DD"
// @Success 200 {object} router.successResponse{data=[]AppointmentResponse}
// @Router /api/v1/officer/appointments [get]
func (h *HTTPEndpoint) ListOfficerAppointments(r *router.Request) (any, error) {
	list, err := h.uc.ListOfficerAppointments(r.Context(), usecase.ListOfficerAppointmentsInput{Date: r.GetQuery("date")})
	if err != nil {
		return nil, err
	}

	resp := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, toAppointmentResponse(a))
	}
	return resp, nil
}
