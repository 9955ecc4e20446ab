package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

func TestUsecase_GenerateOTP(t *testing.T) {
	t.Run("creates a pending code that expires in ten minutes", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.seedCitizen(t, 1, "200156789012", "secret-pass")

		// Act
		out, err := h.uc.GenerateOTP(context.Background(), GenerateOTPInput{
			CitizenID: 1,
			Purpose:   entity.OTPPurposeLogin,
			Meta:      entity.RequestMeta{IP: "10.0.0.1", UserAgent: "curl"},
		})

		// Assert
		if err != nil {
			t.Fatalf("GenerateOTP() error = %v", err)
		}
		if want := h.clock.Now().Add(10 * time.Minute); !out.ExpiresAt.Equal(want) {
			t.Fatalf("ExpiresAt = %v, want %v", out.ExpiresAt, want)
		}
		recs := h.repo.otpsOf(1, entity.OTPPurposeLogin)
		if len(recs) != 1 || recs[0].Status != entity.OTPStatusPending {
			t.Fatalf("unexpected records: %+v", recs)
		}
		msg := h.notifier.last(t)
		if len(msg.Code) != 6 || msg.Email != "nimal@example.lk" {
			t.Fatalf("unexpected message: %+v", msg)
		}
		if recs[0].CodeHash == msg.Code {
			t.Fatal("code must not be stored in plaintext")
		}
		if recs[0].Metadata.String("ip") != "10.0.0.1" {
			t.Fatalf("metadata = %v", recs[0].Metadata)
		}
	})

	t.Run("second request supersedes the pending code", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.seedCitizen(t, 1, "200156789012", "secret-pass")
		ctx := context.Background()
		in := GenerateOTPInput{CitizenID: 1, Purpose: entity.OTPPurposeLogin}

		// Act
		if _, err := h.uc.GenerateOTP(ctx, in); err != nil {
			t.Fatalf("first GenerateOTP() error = %v", err)
		}
		h.clock.Advance(time.Minute)
		if _, err := h.uc.GenerateOTP(ctx, in); err != nil {
			t.Fatalf("second GenerateOTP() error = %v", err)
		}

		// Assert
		recs := h.repo.otpsOf(1, entity.OTPPurposeLogin)
		if len(recs) != 2 {
			t.Fatalf("len(records) = %d, want 2", len(recs))
		}
		if recs[0].Status != entity.OTPStatusExpired || recs[1].Status != entity.OTPStatusPending {
			t.Fatalf("statuses = %s, %s", recs[0].Status, recs[1].Status)
		}
	})

	t.Run("pending codes of other purposes are untouched", func(t *testing.T) {
		h := newHarness(t)
		h.seedCitizen(t, 1, "200156789012", "secret-pass")
		ctx := context.Background()

		if _, err := h.uc.GenerateOTP(ctx, GenerateOTPInput{CitizenID: 1, Purpose: entity.OTPPurposeLogin}); err != nil {
			t.Fatalf("GenerateOTP(Login) error = %v", err)
		}
		if _, err := h.uc.GenerateOTP(ctx, GenerateOTPInput{CitizenID: 1, Purpose: entity.OTPPurposePasswordReset}); err != nil {
			t.Fatalf("GenerateOTP(PasswordReset) error = %v", err)
		}

		if recs := h.repo.otpsOf(1, entity.OTPPurposeLogin); recs[0].Status != entity.OTPStatusPending {
			t.Fatalf("login code status = %s, want Pending", recs[0].Status)
		}
	})

	t.Run("fourth request inside the window is rate limited", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.seedCitizen(t, 1, "200156789012", "secret-pass")
		ctx := context.Background()
		in := GenerateOTPInput{CitizenID: 1, Purpose: entity.OTPPurposeLogin}
		for i := 0; i < 3; i++ {
			if _, err := h.uc.GenerateOTP(ctx, in); err != nil {
				t.Fatalf("request %d error = %v", i+1, err)
			}
			h.clock.Advance(time.Minute)
		}

		// Act
		_, err := h.uc.GenerateOTP(ctx, in)

		// Assert
		assertCode(t, err, goerror.CodeTooManyRequest)
		if n := len(h.repo.otpsOf(1, entity.OTPPurposeLogin)); n != 3 {
			t.Fatalf("records = %d, want 3", n)
		}
	})

	t.Run("fourth request after the window succeeds", func(t *testing.T) {
		h := newHarness(t)
		h.seedCitizen(t, 1, "200156789012", "secret-pass")
		ctx := context.Background()
		in := GenerateOTPInput{CitizenID: 1, Purpose: entity.OTPPurposeLogin}
		for i := 0; i < 3; i++ {
			if _, err := h.uc.GenerateOTP(ctx, in); err != nil {
				t.Fatalf("request %d error = %v", i+1, err)
			}
		}

		h.clock.Advance(15 * time.Minute)

		if _, err := h.uc.GenerateOTP(ctx, in); err != nil {
			t.Fatalf("GenerateOTP() after window error = %v", err)
		}
	})

	t.Run("unknown citizen", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.uc.GenerateOTP(context.Background(), GenerateOTPInput{CitizenID: 99, Purpose: entity.OTPPurposeLogin})
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("suspended citizen", func(t *testing.T) {
		h := newHarness(t)
		c := h.seedCitizen(t, 1, "200156789012", "secret-pass")
		c.Status = entity.CitizenStatusSuspended

		_, err := h.uc.GenerateOTP(context.Background(), GenerateOTPInput{CitizenID: 1, Purpose: entity.OTPPurposeLogin})
		assertCode(t, err, goerror.CodeForbidden)
	})

	t.Run("unknown purpose is invalid input", func(t *testing.T) {
		h := newHarness(t)
		h.seedCitizen(t, 1, "200156789012", "secret-pass")

		_, err := h.uc.GenerateOTP(context.Background(), GenerateOTPInput{CitizenID: 1, Purpose: "Signup"})
		assertCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("delivery failure fails the call and kills the code", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		h.seedCitizen(t, 1, "200156789012", "secret-pass")
		h.notifier.err = errors.New("smtp: connection refused")

		// Act
		_, err := h.uc.GenerateOTP(context.Background(), GenerateOTPInput{CitizenID: 1, Purpose: entity.OTPPurposeLogin})

		// Assert
		assertCode(t, err, goerror.CodeInternal)
		recs := h.repo.otpsOf(1, entity.OTPPurposeLogin)
		if len(recs) != 1 || recs[0].Status != entity.OTPStatusExpired {
			t.Fatalf("undelivered code must be expired, got %+v", recs)
		}
	})

	t.Run("lost race on the pending index is a conflict", func(t *testing.T) {
		h := newHarness(t)
		h.seedCitizen(t, 1, "200156789012", "secret-pass")
		h.repo.errCreateOTP = goerror.ErrConflict

		_, err := h.uc.GenerateOTP(context.Background(), GenerateOTPInput{CitizenID: 1, Purpose: entity.OTPPurposeLogin})
		assertCode(t, err, goerror.CodeConflict)
	})
}
