package usecase

import (
	"context"

	"github.com/lankagov/gnportal/internal/notification/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/shared/event"
)

type appointmentInput struct {
	AppointmentID int64  `validate:"required,gt=0"`
	CitizenEmail  string `validate:"required,email"`
	Date          string `validate:"required"`
}

func (s *Usecase) validateAppointment(msg event.AppointmentMessage) error {
	in := appointmentInput{AppointmentID: msg.AppointmentID, CitizenEmail: msg.CitizenEmail, Date: msg.Date}
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}
	return nil
}

func toAppointment(msg event.AppointmentMessage) entity.Appointment {
	return entity.Appointment{
		AppointmentID: msg.AppointmentID,
		Email:         msg.CitizenEmail,
		FullName:      msg.CitizenName,
		ServiceCode:   msg.ServiceCode,
		ServiceName:   msg.ServiceName,
		OfficerName:   msg.OfficerName,
		Date:          msg.Date,
		StartTime:     msg.StartTime,
		EndTime:       msg.EndTime,
		Reason:        msg.Reason,
	}
}

func (s *Usecase) AppointmentConfirmed(ctx context.Context, msg event.AppointmentMessage) error {
	ctx, span := s.startSpan(ctx, "AppointmentConfirmed")
	defer span.End()

	if err := s.validateAppointment(msg); err != nil {
		return err
	}

	return s.deliver(ctx, toAppointment(msg).RenderConfirmed())
}

func (s *Usecase) AppointmentCancelled(ctx context.Context, msg event.AppointmentMessage) error {
	ctx, span := s.startSpan(ctx, "AppointmentCancelled")
	defer span.End()

	if err := s.validateAppointment(msg); err != nil {
		return err
	}

	return s.deliver(ctx, toAppointment(msg).RenderCancelled())
}
