package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type LoginInput struct {
	NIC      string `validate:"required,nic"`
	Password string `validate:"required"`
	Meta     entity.RequestMeta
}

type LoginOutput struct {
	OTPExpiresAt time.Time
	MaskedEmail  string
}

// Login checks the password and sends a login code. Tokens are issued by
// LoginVerify once the code is presented.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.NIC = entity.NormalizeNIC(in.NIC)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	errCredential := goerror.NewBusiness("Invalid NIC or password", goerror.CodeUnauthorized)

	citizen, err := s.repoDB.GetCitizenByNIC(ctx, in.NIC)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "login for unknown nic")
		return nil, errCredential
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get citizen by nic", "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.bcrypt.Verify(citizen.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "citizen password not match", "citizen_id", citizen.ID)
		return nil, errCredential
	}

	if !citizen.IsEmailVerified() {
		slog.WarnContext(ctx, "citizen email not verified", "citizen_id", citizen.ID)
		return nil, goerror.NewBusiness("Email not verified, please verify your email first", goerror.CodeForbidden)
	}

	otp, err := s.issueOTP(ctx, citizen, entity.OTPPurposeLogin, in.Meta)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		OTPExpiresAt: otp.ExpiresAt,
		MaskedEmail:  entity.MaskEmail(citizen.Email),
	}, nil
}
