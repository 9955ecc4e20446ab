package usecase

import (
	"context"
	"log/slog"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type PasswordResetInput struct {
	NIC         string `validate:"required,nic"`
	Code        string `validate:"required,otp_code"`
	NewPassword string `validate:"required,password"`
}

// PasswordReset consumes a reset code, replaces the password and signs the
// citizen out everywhere.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	in.NIC = entity.NormalizeNIC(in.NIC)
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	citizen, err := s.citizenByNIC(ctx, in.NIC, goerror.NewBusiness("Invalid or already used code", goerror.CodeNotFound))
	if err != nil {
		return err
	}

	rec, err := s.consumeOTP(ctx, citizen.ID, entity.OTPPurposePasswordReset, in.Code)
	if err != nil {
		return err
	}

	hashed, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.ResetPassword(ctx, citizen.ID, string(hashed), *rec.VerifiedAt); err != nil {
		slog.ErrorContext(ctx, "failed to repo reset password", "citizen_id", citizen.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
