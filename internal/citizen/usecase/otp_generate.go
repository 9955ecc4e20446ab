package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type GenerateOTPInput struct {
	CitizenID int64             `validate:"required,gt=0"`
	Purpose   entity.OTPPurpose `validate:"required,oneof=Login PasswordReset EmailVerification"`
	Meta      entity.RequestMeta
}

type GenerateOTPOutput struct {
	OTPID     int64
	Purpose   entity.OTPPurpose
	ExpiresAt time.Time
}

// GenerateOTP issues a new code for the citizen and purpose, superseding any
// pending one, and hands it to the notifier.
func (s *Usecase) GenerateOTP(ctx context.Context, in GenerateOTPInput) (*GenerateOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "GenerateOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	citizen, err := s.repoDB.GetCitizenByID(ctx, in.CitizenID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "citizen not found", "citizen_id", in.CitizenID)
		return nil, goerror.NewBusiness("Citizen not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get citizen by id", "citizen_id", in.CitizenID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return s.issueOTP(ctx, citizen, in.Purpose, in.Meta)
}

func (s *Usecase) issueOTP(ctx context.Context, citizen *entity.Citizen, purpose entity.OTPPurpose, meta entity.RequestMeta) (*GenerateOTPOutput, error) {
	if !citizen.IsActive() {
		slog.WarnContext(ctx, "citizen account is not active", "citizen_id", citizen.ID, "status", citizen.Status)
		return nil, goerror.NewBusiness("Account is not active", goerror.CodeForbidden)
	}

	now := s.clock.Now()
	limit, window := s.otpRateLimit()

	recent, err := s.repoDB.CountOTPSince(ctx, citizen.ID, purpose, now.Add(-window))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count otp", "citizen_id", citizen.ID, "purpose", purpose, "error", err)
		return nil, goerror.NewServer(err)
	}
	if recent >= limit {
		slog.WarnContext(ctx, "otp rate limit reached", "citizen_id", citizen.ID, "purpose", purpose, "recent", recent)
		return nil, goerror.NewBusiness("Too many code requests, please try again later", goerror.CodeTooManyRequest)
	}

	code, err := s.passcode.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	rec := entity.OTPRecord{
		ID:        s.uid.Generate(),
		CitizenID: citizen.ID,
		CodeHash:  string(codeHash),
		Purpose:   purpose,
		Status:    entity.OTPStatusPending,
		Metadata:  meta.Metadata(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.otpTTL()),
	}

	err = s.repoDB.CreateOTP(ctx, rec)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "concurrent otp issue lost", "citizen_id", citizen.ID, "purpose", purpose)
		return nil, goerror.NewBusiness("Another code is being issued, please try again", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create otp", "citizen_id", citizen.ID, "purpose", purpose, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.notifier.Notify(ctx, entity.OTPMessage{
		CitizenID: citizen.ID,
		Email:     citizen.Email,
		Name:      citizen.FullName,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: rec.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to notify otp", "citizen_id", citizen.ID, "otp_id", rec.ID, "error", err)
		if _, xerr := s.repoDB.UpdateOTPStatus(context.WithoutCancel(ctx), rec.ID, entity.OTPStatusPending, entity.OTPStatusExpired, now); xerr != nil {
			slog.ErrorContext(ctx, "failed to repo expire undelivered otp", "otp_id", rec.ID, "error", xerr)
		}
		return nil, goerror.NewServer(err)
	}

	s.countOTP(ctx, s.otpIssued, 1, purpose)

	return &GenerateOTPOutput{
		OTPID:     rec.ID,
		Purpose:   purpose,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}
