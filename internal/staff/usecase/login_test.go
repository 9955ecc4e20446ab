package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/staff/entity"
)

func TestUsecase_Login(t *testing.T) {
	tests := []struct {
		name     string
		seed     func(h *harness)
		in       LoginInput
		wantCode goerror.Code
	}{
		{
			name:     "unknown email",
			seed:     func(*harness) {},
			in:       LoginInput{Email: "officer@gn.lk", Password: "officer-pass"},
			wantCode: goerror.CodeUnauthorized,
		},
		{
			name:     "wrong password",
			seed:     func(h *harness) { h.seedStaff(t, 7, "officer@gn.lk", jwt.RoleOfficer, "officer-pass") },
			in:       LoginInput{Email: "officer@gn.lk", Password: "wrong-pass"},
			wantCode: goerror.CodeUnauthorized,
		},
		{
			name: "suspended",
			seed: func(h *harness) {
				h.seedStaff(t, 7, "officer@gn.lk", jwt.RoleOfficer, "officer-pass").Status = entity.StaffStatusSuspended
			},
			in:       LoginInput{Email: "officer@gn.lk", Password: "officer-pass"},
			wantCode: goerror.CodeForbidden,
		},
		{
			name:     "bad email",
			seed:     func(*harness) {},
			in:       LoginInput{Email: "officer", Password: "officer-pass"},
			wantCode: goerror.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			h := newHarness(t)
			tt.seed(h)

			// Act
			out, err := h.uc.Login(context.Background(), tt.in)

			// Assert
			if out != nil {
				t.Fatalf("expected nil output, got %+v", out)
			}
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestUsecase_Login_WithoutTOTP(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.seedStaff(t, 7, "officer@gn.lk", jwt.RoleOfficer, "officer-pass")

	// Act
	out, err := h.uc.Login(context.Background(), LoginInput{Email: " Officer@GN.lk ", Password: "officer-pass"})

	// Assert
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if out.TOTPRequired || out.AccessToken != "access-officer-7" || out.ChallengeToken != "" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestUsecase_LoginWithTOTP(t *testing.T) {
	// Arrange: enroll and confirm an authenticator
	h := newHarness(t)
	h.seedStaff(t, 7, "officer@gn.lk", jwt.RoleOfficer, "officer-pass")
	ctx := as(7, jwt.RoleOfficer)

	setup, err := h.uc.TOTPSetup(ctx)
	if err != nil {
		t.Fatalf("TOTPSetup() error = %v", err)
	}
	code, err := h.totp.GenerateCode(setup.Secret, h.clock.Now())
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if err := h.uc.TOTPConfirm(ctx, TOTPConfirmInput{Code: code}); err != nil {
		t.Fatalf("TOTPConfirm() error = %v", err)
	}

	// Act: password step asks for the second factor
	out, err := h.uc.Login(context.Background(), LoginInput{Email: "officer@gn.lk", Password: "officer-pass"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !out.TOTPRequired || out.AccessToken != "" || out.ChallengeToken != "challenge-7" {
		t.Fatalf("unexpected output: %+v", out)
	}

	// Act: wrong code is refused
	h.clock.Advance(2 * time.Minute)
	_, err = h.uc.LoginTOTP(context.Background(), LoginTOTPInput{ChallengeToken: out.ChallengeToken, Code: "000000"})
	if goerror.CodeOf(err) != goerror.CodeUnauthorized && goerror.CodeOf(err) != goerror.CodeInvalidInput {
		t.Fatalf("wrong code error = %v", err)
	}

	// Act: current code completes the login
	code, err = h.totp.GenerateCode(setup.Secret, h.clock.Now())
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	done, err := h.uc.LoginTOTP(context.Background(), LoginTOTPInput{ChallengeToken: out.ChallengeToken, Code: code})

	// Assert
	if err != nil {
		t.Fatalf("LoginTOTP() error = %v", err)
	}
	if done.AccessToken != "access-officer-7" {
		t.Fatalf("AccessToken = %q", done.AccessToken)
	}
}

func TestUsecase_LoginTOTP_Rejects(t *testing.T) {
	h := newHarness(t)
	h.seedStaff(t, 7, "officer@gn.lk", jwt.RoleOfficer, "officer-pass")

	t.Run("access token as challenge", func(t *testing.T) {
		_, err := h.uc.LoginTOTP(context.Background(), LoginTOTPInput{ChallengeToken: "access-officer-7", Code: "123456"})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("totp not enabled", func(t *testing.T) {
		_, err := h.uc.LoginTOTP(context.Background(), LoginTOTPInput{ChallengeToken: "challenge-7", Code: "123456"})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("malformed code", func(t *testing.T) {
		_, err := h.uc.LoginTOTP(context.Background(), LoginTOTPInput{ChallengeToken: "challenge-7", Code: "12ab"})
		assertCode(t, err, goerror.CodeInvalidInput)
	})
}
