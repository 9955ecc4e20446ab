package usecase

import (
	"context"
	"log/slog"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

// ListAppointments returns the caller's appointments, newest date first.
func (s *Usecase) ListAppointments(ctx context.Context) ([]entity.Appointment, error) {
	ctx, span := s.startSpan(ctx, "ListAppointments")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleCitizen)
	if err != nil {
		return nil, err
	}

	list, err := s.repoDB.ListAppointmentsByCitizen(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list appointments", "citizen_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return list, nil
}

type ListOfficerAppointmentsInput struct {
	Date string `validate:"required"`
}

// ListOfficerAppointments is the calling officer's schedule for one day.
func (s *Usecase) ListOfficerAppointments(ctx context.Context, in ListOfficerAppointmentsInput) ([]entity.Appointment, error) {
	ctx, span := s.startSpan(ctx, "ListOfficerAppointments")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleOfficer, jwt.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}

	list, err := s.repoDB.ListAppointmentsByOfficer(ctx, clm.UserID, date)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list officer appointments", "officer_id", clm.UserID, "date", in.Date, "error", err)
		return nil, goerror.NewServer(err)
	}

	return list, nil
}
