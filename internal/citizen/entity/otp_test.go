package entity

import (
	"errors"
	"testing"
	"time"
)

func TestOTPStatus_Apply(t *testing.T) {
	tests := []struct {
		name    string
		from    OTPStatus
		ev      OTPEvent
		want    OTPStatus
		wantErr bool
	}{
		{name: "pending verify", from: OTPStatusPending, ev: OTPEventVerify, want: OTPStatusVerified},
		{name: "pending expire", from: OTPStatusPending, ev: OTPEventExpire, want: OTPStatusExpired},
		{name: "pending superseded", from: OTPStatusPending, ev: OTPEventSupersede, want: OTPStatusExpired},
		{name: "verified is terminal", from: OTPStatusVerified, ev: OTPEventExpire, want: OTPStatusVerified, wantErr: true},
		{name: "expired is terminal", from: OTPStatusExpired, ev: OTPEventVerify, want: OTPStatusExpired, wantErr: true},
		{name: "unknown event", from: OTPStatusPending, ev: OTPEvent("Reopen"), want: OTPStatusPending, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Apply(tt.ev)
			if tt.wantErr != (err != nil) {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("Apply() error = %v, want ErrInvalidTransition", err)
			}
			if got != tt.want {
				t.Fatalf("Apply() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOTPRecord_IsExpiredAt(t *testing.T) {
	exp := time.Date(2025, 8, 20, 10, 10, 0, 0, time.UTC)
	rec := OTPRecord{ExpiresAt: exp}

	if rec.IsExpiredAt(exp.Add(-time.Second)) {
		t.Fatal("code must still be valid one second before expiry")
	}
	if !rec.IsExpiredAt(exp) {
		t.Fatal("code must be expired exactly at expires_at")
	}
}

func TestOTPPurpose_IsValid(t *testing.T) {
	for _, p := range []OTPPurpose{OTPPurposeLogin, OTPPurposePasswordReset, OTPPurposeEmailVerification} {
		if !p.IsValid() {
			t.Fatalf("%s should be valid", p)
		}
	}
	if OTPPurpose("Signup").IsValid() {
		t.Fatal("unknown purpose should be invalid")
	}
}

func TestMaskEmail(t *testing.T) {
	if got := MaskEmail("nimal@example.lk"); got != "n***@example.lk" {
		t.Fatalf("MaskEmail() = %q", got)
	}
	if got := MaskEmail("broken"); got != "***" {
		t.Fatalf("MaskEmail() = %q", got)
	}
}
