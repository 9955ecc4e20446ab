package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

func newOpaqueToken() (string, error) {
	b := make([]byte, refreshTokenEntropy)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// issueTokens signs an access token and stores a new refresh token. When
// rotatedFrom is set the old refresh token is revoked in the same write.
func (s *Usecase) issueTokens(ctx context.Context, citizen *entity.Citizen, rotatedFrom int64) (*TokenOutput, error) {
	access, err := s.jwt.Generate(jwt.Subject{ID: citizen.ID, Email: citizen.Email, Role: jwt.RoleCitizen})
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "citizen_id", citizen.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refresh, err := newOpaqueToken()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate refresh token", "citizen_id", citizen.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refreshHash, err := s.hmac.Hash(refresh)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "citizen_id", citizen.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	rt := entity.RefreshToken{
		ID:        s.uid.Generate(),
		CitizenID: citizen.ID,
		TokenHash: string(refreshHash),
		ExpiresAt: now.Add(s.refreshTTL()),
	}

	if rotatedFrom > 0 {
		err = s.repoDB.RotateRefreshToken(ctx, rotatedFrom, rt, now)
	} else {
		err = s.repoDB.CreateRefreshToken(ctx, rt)
	}
	if rotatedFrom > 0 && errors.Is(err, goerror.ErrConflict) {
		// another request rotated the same token first
		slog.WarnContext(ctx, "refresh token rotated concurrently, revoking all", "citizen_id", citizen.ID)
		if err := s.repoDB.RevokeAllRefreshTokens(ctx, citizen.ID, now); err != nil {
			slog.ErrorContext(ctx, "failed to repo revoke all refresh tokens", "citizen_id", citizen.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		return nil, goerror.NewBusiness("Invalid or expired refresh token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo store refresh token", "citizen_id", citizen.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &TokenOutput{AccessToken: access, RefreshToken: refresh}, nil
}
