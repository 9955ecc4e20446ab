package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/staff/entity"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginOutput carries either an access token or, when the second factor is
// on, a challenge token for LoginTOTP.
type LoginOutput struct {
	AccessToken    string
	ChallengeToken string
	TOTPRequired   bool
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = entity.NormalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	errCredential := goerror.NewBusiness("Invalid email or password", goerror.CodeUnauthorized)

	st, err := s.repoDB.GetStaffByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "staff login for unknown email")
		return nil, errCredential
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get staff by email", "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.argon2.Verify(st.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "staff password not match", "staff_id", st.ID)
		return nil, errCredential
	}

	if !st.IsActive() {
		slog.WarnContext(ctx, "staff account is not active", "staff_id", st.ID)
		return nil, goerror.NewBusiness("Account is not active", goerror.CodeForbidden)
	}

	sub := jwt.Subject{ID: st.ID, Email: st.Email, Role: st.Role}

	if st.TOTPEnabled {
		challenge, err := s.jwt.GenerateChallenge(sub)
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate challenge token", "staff_id", st.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		return &LoginOutput{ChallengeToken: challenge, TOTPRequired: true}, nil
	}

	access, err := s.jwt.Generate(sub)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "staff_id", st.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	return &LoginOutput{AccessToken: access}, nil
}

type LoginTOTPInput struct {
	ChallengeToken string `validate:"required"`
	Code           string `validate:"required,otp_code"`
}

// LoginTOTP completes a login started with Login by checking the
// authenticator code.
func (s *Usecase) LoginTOTP(ctx context.Context, in LoginTOTPInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginTOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	errChallenge := goerror.NewBusiness("Invalid or expired login challenge", goerror.CodeUnauthorized)

	clm, err := s.jwt.VerifyChallenge(in.ChallengeToken)
	if err != nil {
		slog.WarnContext(ctx, "invalid staff challenge token", "error", err)
		return nil, errChallenge
	}

	st, err := s.repoDB.GetStaffByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errChallenge
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get staff by id", "staff_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !st.IsActive() {
		return nil, goerror.NewBusiness("Account is not active", goerror.CodeForbidden)
	}
	if !st.TOTPEnabled || st.TOTPSecret == nil {
		return nil, errChallenge
	}

	seed, err := s.openSeed(ctx, st)
	if err != nil {
		return nil, err
	}
	if !s.totp.Validate(in.Code, seed, s.clock.Now()) {
		slog.WarnContext(ctx, "staff totp code not match", "staff_id", st.ID)
		return nil, goerror.NewBusiness("Invalid authentication code", goerror.CodeUnauthorized)
	}

	access, err := s.jwt.Generate(jwt.Subject{ID: st.ID, Email: st.Email, Role: st.Role})
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "staff_id", st.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	return &LoginOutput{AccessToken: access}, nil
}
