package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

type ListAvailableSlotsInput struct {
	Date string `validate:"required"`
}

// ListAvailableSlots returns the open slots of the caller's officer on a day.
func (s *Usecase) ListAvailableSlots(ctx context.Context, in ListAvailableSlotsInput) ([]entity.TimeSlot, error) {
	ctx, span := s.startSpan(ctx, "ListAvailableSlots")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleCitizen)
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

	asg, err := s.resolveOfficer(ctx, clm.UserID)
	if err != nil {
		return nil, err
	}

	slots, err := s.repoDB.ListAvailableSlots(ctx, asg.OfficerID, date)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list available slots", "officer_id", asg.OfficerID, "date", in.Date, "error", err)
		return nil, goerror.NewServer(err)
	}

	return slots, nil
}

type CreateTimeSlotsInput struct {
	Date            string `validate:"required"`
	Start           string `validate:"required,datetime=15:04"`
	End             string `validate:"required,datetime=15:04"`
	DurationMinutes int    `validate:"required,min=5,max=240"`
}

// CreateTimeSlots opens the caller's window on a day as consecutive slots.
func (s *Usecase) CreateTimeSlots(ctx context.Context, in CreateTimeSlotsInput) ([]entity.TimeSlot, error) {
	ctx, span := s.startSpan(ctx, "CreateTimeSlots")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleOfficer)
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
	if date.Before(s.today()) {
		return nil, goerror.NewInvalidInput(nil, "date", "must not be in the past")
	}

	start, _ := time.Parse("15:04", in.Start)
	end, _ := time.Parse("15:04", in.End)
	from := date.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute)
	to := date.Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute)

	windows := entity.SplitWindow(from, to, time.Duration(in.DurationMinutes)*time.Minute)
	if len(windows) == 0 {
		return nil, goerror.NewInvalidInput(nil, "end", "must leave room for at least one slot after start")
	}

	slots := make([]entity.TimeSlot, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, entity.TimeSlot{
			ID:        s.uid.Generate(),
			OfficerID: clm.UserID,
			Date:      date,
			StartsAt:  w[0],
			EndsAt:    w[1],
			Status:    entity.SlotStatusAvailable,
		})
	}

	err = s.repoDB.CreateTimeSlots(ctx, slots)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "time slots overlap existing ones", "officer_id", clm.UserID, "date", in.Date)
		return nil, goerror.NewBusiness("Time slots overlap existing slots", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create time slots", "officer_id", clm.UserID, "date", in.Date, "error", err)
		return nil, goerror.NewServer(err)
	}

	return slots, nil
}
