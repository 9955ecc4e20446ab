package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/idempotency"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

type CreateAppointmentInput struct {
	ServiceCode    string `validate:"max=16"`
	ServiceID      int64  `validate:"gte=0"`
	Date           string `validate:"required"`
	Purpose        string `validate:"max=500"`
	IdempotencyKey string `validate:"omitempty,max=128"`
}

// CreateAppointment opens a Pending appointment for the caller against a
// service and date. The officer comes from the caller's division. A repeated
// call with the same idempotency key returns the first appointment.
func (s *Usecase) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*entity.Appointment, error) {
	ctx, span := s.startSpan(ctx, "CreateAppointment")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleCitizen)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.ServiceCode == "" && in.ServiceID == 0 {
		return nil, goerror.NewInvalidInput(nil, "service_code", "service_code or service_id is required")
	}

	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	if date.Before(s.today()) {
		return nil, goerror.NewInvalidInput(nil, "date", "must not be in the past")
	}

	if in.IdempotencyKey == "" || s.idempotency == nil {
		return s.createAppointment(ctx, clm.UserID, in, date)
	}

	key := "appointment:create:" + strconv.FormatInt(clm.UserID, 10) + ":" + in.IdempotencyKey
	raw, err := s.idempotency.Do(ctx, key, func(ctx context.Context) ([]byte, error) {
		a, err := s.createAppointment(ctx, clm.UserID, in, date)
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatInt(a.ID, 10)), nil
	})
	if errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.WarnContext(ctx, "appointment creation already in progress", "citizen_id", clm.UserID)
		return nil, goerror.NewBusiness("A request with this Idempotency-Key is still in progress", goerror.CodeConflict)
	}
	if err != nil {
		if isCoded(err) {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to run idempotent appointment creation", "citizen_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "stored idempotent result is not an id", "citizen_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	a, err := s.repoDB.GetAppointment(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get appointment", "appointment_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	return a, nil
}

func (s *Usecase) createAppointment(ctx context.Context, citizenID int64, in CreateAppointmentInput, date time.Time) (*entity.Appointment, error) {
	req, err := s.repoDB.GetRequester(ctx, citizenID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "citizen not found", "citizen_id", citizenID)
		return nil, goerror.NewBusiness("Citizen not found", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get requester", "citizen_id", citizenID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !req.Active {
		return nil, goerror.NewBusiness("Account is not active", goerror.CodeForbidden)
	}
	if !req.EmailVerified {
		return nil, goerror.NewBusiness("Email address is not verified", goerror.CodeForbidden)
	}
	if req.DivisionID == nil {
		return nil, goerror.NewBusiness("Citizen is not assigned to a division", goerror.CodeInvalidState)
	}

	svc, err := s.lookupService(ctx, in)
	if err != nil {
		return nil, err
	}

	asg, err := s.resolveOfficer(ctx, citizenID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	a := entity.Appointment{
		ID:            s.uid.Generate(),
		CitizenID:     citizenID,
		ServiceID:     svc.ID,
		OfficerID:     asg.OfficerID,
		RequestedDate: date,
		Purpose:       strings.TrimSpace(in.Purpose),
		Status:        entity.AppointmentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		ServiceCode:   svc.Code,
		ServiceName:   svc.Name,
	}

	if err := s.repoDB.CreateAppointment(ctx, a); err != nil {
		slog.ErrorContext(ctx, "failed to repo create appointment", "citizen_id", citizenID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &a, nil
}

func (s *Usecase) lookupService(ctx context.Context, in CreateAppointmentInput) (*entity.Service, error) {
	var (
		svc *entity.Service
		err error
	)
	if in.ServiceCode != "" {
		svc, err = s.repoDB.GetServiceByCode(ctx, strings.ToUpper(strings.TrimSpace(in.ServiceCode)))
	} else {
		svc, err = s.repoDB.GetServiceByID(ctx, in.ServiceID)
	}
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "service not found", "service_code", in.ServiceCode, "service_id", in.ServiceID)
		return nil, goerror.NewBusiness("Service not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get service", "service_code", in.ServiceCode, "service_id", in.ServiceID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !svc.Enabled {
		return nil, goerror.NewBusiness("Service is not available", goerror.CodeInvalidState)
	}
	return svc, nil
}
