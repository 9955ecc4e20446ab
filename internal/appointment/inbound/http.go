package inbound

import (
	"context"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/appointment/usecase"
	"github.com/lankagov/gnportal/internal/pkg/router"
)

type uc interface {
	ListServices(ctx context.Context) ([]entity.Service, error)
	ListAvailableSlots(ctx context.Context, in usecase.ListAvailableSlotsInput) ([]entity.TimeSlot, error)

	CreateAppointment(ctx context.Context, in usecase.CreateAppointmentInput) (*entity.Appointment, error)
	ListAppointments(ctx context.Context) ([]entity.Appointment, error)
	GetAppointment(ctx context.Context, id int64) (*entity.Appointment, error)
	BookSlot(ctx context.Context, in usecase.BookSlotInput) (*entity.Appointment, error)
	CancelAppointment(ctx context.Context, in usecase.CancelAppointmentInput) (*entity.Appointment, error)

	CreateTimeSlots(ctx context.Context, in usecase.CreateTimeSlotsInput) ([]entity.TimeSlot, error)
	ListOfficerAppointments(ctx context.Context, in usecase.ListOfficerAppointmentsInput) ([]entity.Appointment, error)
}

// PublicEndpoints are the appointment routes reachable without a token.
var PublicEndpoints = []string{
	"/api/v1/services",
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Catalogue
	r.GET("/api/v1/services", end.ListServices)
	r.GET("/api/v1/slots", end.ListAvailableSlots)

	// Citizen appointments
	r.POST("/api/v1/appointments", end.CreateAppointment)
	r.GET("/api/v1/appointments", end.ListAppointments)
	r.GET("/api/v1/appointments/:id", end.GetAppointment)
	r.POST("/api/v1/appointments/:id/book", end.BookSlot)
	r.POST("/api/v1/appointments/:id/cancel", end.CancelAppointment)

	// Officer calendar
	r.POST("/api/v1/officer/slots", end.CreateTimeSlots)
	r.GET("/api/v1/officer/appointments", end.ListOfficerAppointments)
}
