package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

type CancelAppointmentInput struct {
	AppointmentID int64  `validate:"required,gt=0"`
	Reason        string `validate:"max=500"`
}

// CancelAppointment cancels a Pending or Confirmed appointment and hands its
// slot back to the officer's calendar.
func (s *Usecase) CancelAppointment(ctx context.Context, in CancelAppointmentInput) (*entity.Appointment, error) {
	ctx, span := s.startSpan(ctx, "CancelAppointment")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleCitizen, jwt.RoleOfficer, jwt.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	guard := func(a entity.Appointment) (entity.AppointmentStatus, error) {
		if !canAccess(clm, a) {
			return a.Status, goerror.NewBusiness("Appointment does not belong to you", goerror.CodeForbidden)
		}
		next, err := a.Status.Apply(entity.AppointmentEventCancel)
		if err != nil {
			return a.Status, goerror.NewBusiness("Appointment is already cancelled", goerror.CodeInvalidState)
		}
		return next, nil
	}

	tr, err := s.repoDB.CancelAppointment(ctx, in.AppointmentID, strings.TrimSpace(in.Reason), guard, s.clock.Now())
	switch {
	case err == nil:
	case isCoded(err):
		slog.WarnContext(ctx, "cancel appointment rejected", "appointment_id", in.AppointmentID, "error", err)
		return nil, err
	case errors.Is(err, goerror.ErrNotFound):
		slog.WarnContext(ctx, "appointment not found", "appointment_id", in.AppointmentID)
		return nil, goerror.NewBusiness("Appointment not found", goerror.CodeNotFound)
	default:
		slog.ErrorContext(ctx, "failed to repo cancel appointment", "appointment_id", in.AppointmentID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.announce(ctx, tr.Appointment.ID, false)

	a := tr.Appointment
	return &a, nil
}
