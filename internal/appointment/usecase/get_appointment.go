package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

func (s *Usecase) GetAppointment(ctx context.Context, id int64) (*entity.Appointment, error) {
	ctx, span := s.startSpan(ctx, "GetAppointment")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleCitizen, jwt.RoleOfficer, jwt.RoleAdmin)
	if err != nil {
		return nil, err
	}

	a, err := s.repoDB.GetAppointment(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "appointment not found", "appointment_id", id)
		return nil, goerror.NewBusiness("Appointment not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get appointment", "appointment_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !canAccess(clm, *a) {
		slog.WarnContext(ctx, "appointment not visible to caller", "appointment_id", id, "user_id", clm.UserID)
		return nil, goerror.NewBusiness("Appointment does not belong to you", goerror.CodeForbidden)
	}

	return a, nil
}
