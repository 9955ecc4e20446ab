package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

func (s *Usecase) Profile(ctx context.Context) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.Role != jwt.RoleCitizen {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	profile, err := s.repoDB.GetCitizenProfile(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "citizen profile not found", "citizen_id", clm.UserID)
		return nil, goerror.NewBusiness("Citizen not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get citizen profile", "citizen_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return profile, nil
}
