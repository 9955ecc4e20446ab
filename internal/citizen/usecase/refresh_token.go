package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type RefreshTokenInput struct {
	RefreshToken string `validate:"required"`
}

// RefreshToken rotates a refresh token. Presenting a token that was already
// rotated revokes every token of the citizen.
func (s *Usecase) RefreshToken(ctx context.Context, in RefreshTokenInput) (*TokenOutput, error) {
	ctx, span := s.startSpan(ctx, "RefreshToken")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	errInvalid := goerror.NewBusiness("Invalid or expired refresh token", goerror.CodeUnauthorized)

	tokenHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	rt, err := s.repoDB.GetRefreshToken(ctx, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "refresh token not found")
		return nil, errInvalid
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()

	if rt.IsRevoked() {
		if rt.WasRotated() {
			slog.WarnContext(ctx, "rotated refresh token reused, revoking all", "citizen_id", rt.CitizenID)
			if err := s.repoDB.RevokeAllRefreshTokens(ctx, rt.CitizenID, now); err != nil {
				slog.ErrorContext(ctx, "failed to repo revoke all refresh tokens", "citizen_id", rt.CitizenID, "error", err)
				return nil, goerror.NewServer(err)
			}
		}
		return nil, errInvalid
	}

	if !now.Before(rt.ExpiresAt) {
		slog.WarnContext(ctx, "refresh token expired", "citizen_id", rt.CitizenID)
		return nil, errInvalid
	}

	citizen, err := s.repoDB.GetCitizenByID(ctx, rt.CitizenID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errInvalid
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get citizen by id", "citizen_id", rt.CitizenID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !citizen.IsActive() {
		return nil, goerror.NewBusiness("Account is not active", goerror.CodeForbidden)
	}

	return s.issueTokens(ctx, citizen, rt.ID)
}
