package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type VerifyOTPInput struct {
	CitizenID int64             `validate:"required,gt=0"`
	Purpose   entity.OTPPurpose `validate:"required,oneof=Login PasswordReset EmailVerification"`
	Code      string            `validate:"required,otp_code"`
}

// VerifyOTP consumes a pending code. A code past its expiry is flipped to
// Expired so a retry of the same code reports it as unknown.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) error {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	_, err := s.consumeOTP(ctx, in.CitizenID, in.Purpose, in.Code)
	return err
}

func (s *Usecase) consumeOTP(ctx context.Context, citizenID int64, purpose entity.OTPPurpose, code string) (*entity.OTPRecord, error) {
	errUnknown := goerror.NewBusiness("Invalid or already used code", goerror.CodeNotFound)

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	rec, err := s.repoDB.GetPendingOTP(ctx, citizenID, purpose, string(codeHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "pending otp not found", "citizen_id", citizenID, "purpose", purpose)
		return nil, errUnknown
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get pending otp", "citizen_id", citizenID, "purpose", purpose, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()

	if rec.IsExpiredAt(now) {
		next, err := rec.Status.Apply(entity.OTPEventExpire)
		if err != nil {
			return nil, errUnknown
		}
		if _, err := s.repoDB.UpdateOTPStatus(ctx, rec.ID, rec.Status, next, now); err != nil {
			slog.ErrorContext(ctx, "failed to repo expire otp", "otp_id", rec.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		slog.WarnContext(ctx, "otp presented after expiry", "otp_id", rec.ID, "citizen_id", citizenID)
		return nil, goerror.NewBusiness("Code has expired, please request a new one", goerror.CodeExpired)
	}

	next, err := rec.Status.Apply(entity.OTPEventVerify)
	if err != nil {
		return nil, errUnknown
	}

	won, err := s.repoDB.UpdateOTPStatus(ctx, rec.ID, rec.Status, next, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo verify otp", "otp_id", rec.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !won {
		slog.WarnContext(ctx, "otp consumed concurrently", "otp_id", rec.ID)
		return nil, errUnknown
	}

	s.countOTP(ctx, s.otpVerified, 1, purpose)

	rec.Status = next
	rec.VerifiedAt = &now
	return rec, nil
}
