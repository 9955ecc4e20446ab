package usecase

import (
	"context"
	"log/slog"

	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type TOTPSetupOutput struct {
	Secret string
	URI    string
}

// TOTPSetup enrolls a fresh authenticator secret. It stays inactive until
// TOTPConfirm sees a valid code from it.
func (s *Usecase) TOTPSetup(ctx context.Context) (*TOTPSetupOutput, error) {
	ctx, span := s.startSpan(ctx, "TOTPSetup")
	defer span.End()

	st, err := s.me(ctx)
	if err != nil {
		return nil, err
	}
	if st.TOTPEnabled {
		return nil, goerror.NewBusiness("Two-factor authentication is already enabled", goerror.CodeInvalidState)
	}

	secret, uri, err := s.totp.Generate(st.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "staff_id", st.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	sealed, err := s.mfa.Encrypt([]byte(secret), seedScope(st.ID))
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt totp seed", "staff_id", st.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.SaveTOTPSecret(ctx, st.ID, sealed, s.clock.Now()); err != nil {
		slog.ErrorContext(ctx, "failed to repo save totp secret", "staff_id", st.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &TOTPSetupOutput{Secret: secret, URI: uri}, nil
}

type TOTPConfirmInput struct {
	Code string `validate:"required,otp_code"`
}

func (s *Usecase) TOTPConfirm(ctx context.Context, in TOTPConfirmInput) error {
	ctx, span := s.startSpan(ctx, "TOTPConfirm")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	st, err := s.me(ctx)
	if err != nil {
		return err
	}
	if st.TOTPEnabled {
		return goerror.NewBusiness("Two-factor authentication is already enabled", goerror.CodeInvalidState)
	}
	if st.TOTPSecret == nil {
		return goerror.NewBusiness("Set up two-factor authentication first", goerror.CodeInvalidState)
	}

	seed, err := s.openSeed(ctx, st)
	if err != nil {
		return err
	}
	if !s.totp.Validate(in.Code, seed, s.clock.Now()) {
		return goerror.NewInvalidInput(nil, "code", "does not match the authenticator")
	}

	enabled, err := s.repoDB.EnableTOTP(ctx, st.ID, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo enable totp", "staff_id", st.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !enabled {
		return goerror.NewBusiness("Two-factor authentication is already enabled", goerror.CodeInvalidState)
	}

	return nil
}
