package usecase

import (
	"context"
	"log/slog"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type VerifyEmailInput struct {
	NIC  string `validate:"required,nic"`
	Code string `validate:"required,otp_code"`
}

func (s *Usecase) VerifyEmail(ctx context.Context, in VerifyEmailInput) error {
	ctx, span := s.startSpan(ctx, "VerifyEmail")
	defer span.End()

	in.NIC = entity.NormalizeNIC(in.NIC)
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	citizen, err := s.citizenByNIC(ctx, in.NIC, goerror.NewBusiness("Invalid or already used code", goerror.CodeNotFound))
	if err != nil {
		return err
	}

	if citizen.IsEmailVerified() {
		return goerror.NewBusiness("Email is already verified", goerror.CodeInvalidState)
	}

	rec, err := s.consumeOTP(ctx, citizen.ID, entity.OTPPurposeEmailVerification, in.Code)
	if err != nil {
		return err
	}

	if err := s.repoDB.MarkEmailVerified(ctx, citizen.ID, *rec.VerifiedAt); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark email verified", "citizen_id", citizen.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
