package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type PasswordForgotInput struct {
	NIC  string `validate:"required,nic"`
	Meta entity.RequestMeta
}

// PasswordForgot sends a reset code. An unknown NIC gets the same answer as a
// known one.
func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) error {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
	defer span.End()

	in.NIC = entity.NormalizeNIC(in.NIC)
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	citizen, err := s.repoDB.GetCitizenByNIC(ctx, in.NIC)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password forgot for unknown nic")
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get citizen by nic", "error", err)
		return goerror.NewServer(err)
	}

	_, err = s.issueOTP(ctx, citizen, entity.OTPPurposePasswordReset, in.Meta)
	return err
}
