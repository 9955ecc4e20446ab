package validator

import (
	"errors"
	"testing"
)

type sampleInput struct {
	NIC      string `validate:"required,nic"`
	Code     string `validate:"required,otp_code"`
	Password string `validate:"required,password"`
	Phone    string `validate:"omitempty,phone"`
}

func TestV10Validator_CustomRules(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	t.Run("valid new and old NIC", func(t *testing.T) {
		for _, nic := range []string{"200156789012", "991234567V"} {
			in := sampleInput{NIC: nic, Code: "012345", Password: "longenough"}
			if err := v.Validate(in); err != nil {
				t.Fatalf("Validate(%s) error = %v", nic, err)
			}
		}
	})

	t.Run("invalid fields are reported in snake case", func(t *testing.T) {
		// Arrange
		in := sampleInput{NIC: "12345", Code: "12a456", Password: "short", Phone: "abc"}

		// Act
		err := v.Validate(in)

		// Assert
		var verr V10ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected V10ValidationError, got %T (%v)", err, err)
		}
		for _, field := range []string{"nic", "code", "password", "phone"} {
			if verr.Values()[field] == "" {
				t.Fatalf("missing message for %s in %v", field, verr.Values())
			}
		}
		if verr.Values()["code"] != "Code must be a 6 digit code" {
			t.Fatalf("code message = %q", verr.Values()["code"])
		}
	})
}
