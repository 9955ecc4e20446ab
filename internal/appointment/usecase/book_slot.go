package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

type BookSlotInput struct {
	AppointmentID int64 `validate:"required,gt=0"`
	SlotID        int64 `validate:"required,gt=0"`
}

// BookSlot claims an available slot of the appointment's officer and
// confirms the appointment. Of two callers racing for one slot exactly one
// wins; the other gets a Conflict.
func (s *Usecase) BookSlot(ctx context.Context, in BookSlotInput) (*entity.Appointment, error) {
	ctx, span := s.startSpan(ctx, "BookSlot")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleCitizen)
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
		next, err := a.Status.Apply(entity.AppointmentEventBook)
		if err != nil {
			return a.Status, goerror.NewBusiness("Appointment cannot be booked in status "+a.Status.String(), goerror.CodeInvalidState)
		}
		return next, nil
	}

	tr, err := s.repoDB.BookSlot(ctx, in.AppointmentID, in.SlotID, guard, s.clock.Now())
	switch {
	case err == nil:
	case isCoded(err):
		slog.WarnContext(ctx, "book slot rejected", "appointment_id", in.AppointmentID, "slot_id", in.SlotID, "error", err)
		return nil, err
	case errors.Is(err, goerror.ErrNotFound):
		slog.WarnContext(ctx, "appointment not found", "appointment_id", in.AppointmentID)
		return nil, goerror.NewBusiness("Appointment not found", goerror.CodeNotFound)
	case errors.Is(err, entity.ErrSlotNotFound):
		slog.WarnContext(ctx, "time slot not found", "appointment_id", in.AppointmentID, "slot_id", in.SlotID)
		return nil, goerror.NewBusiness("Time slot not found", goerror.CodeNotFound)
	case errors.Is(err, entity.ErrSlotDateMismatch):
		slog.WarnContext(ctx, "time slot on another date", "appointment_id", in.AppointmentID, "slot_id", in.SlotID)
		return nil, goerror.NewBusiness("Time slot is not on the appointment date", goerror.CodeInvalidState)
	case errors.Is(err, entity.ErrSlotTaken):
		slog.WarnContext(ctx, "time slot already booked", "appointment_id", in.AppointmentID, "slot_id", in.SlotID)
		return nil, goerror.NewBusiness("Time slot is no longer available", goerror.CodeConflict)
	default:
		slog.ErrorContext(ctx, "failed to repo book slot", "appointment_id", in.AppointmentID, "slot_id", in.SlotID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.booked != nil {
		s.booked.Add(ctx, 1)
	}
	s.announce(ctx, tr.Appointment.ID, true)

	a := tr.Appointment
	a.Slot = tr.Slot
	return &a, nil
}
