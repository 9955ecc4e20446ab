// Package totp implements RFC 6238 time based codes for staff second factor.
package totp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP enrolls secrets and validates codes.
type TOTP interface {
	// Generate returns a new base32 secret and its otpauth:// provisioning URI.
	Generate(accountName string) (secret, uri string, err error)
	Validate(code, secret string, at time.Time) bool
	GenerateCode(secret string, at time.Time) (string, error)
}

// Authenticator is the pquerna/otp backed TOTP.
type Authenticator struct {
	issuer string
	opts   totp.ValidateOpts
}

// New falls back to 30 second periods, one step of skew and 6 digits.
func New(issuer string, period, skew uint) *Authenticator {
	if period == 0 {
		period = 30
	}
	if skew == 0 {
		skew = 1
	}
	return &Authenticator{
		issuer: issuer,
		opts: totp.ValidateOpts{
			Period:    period,
			Skew:      skew,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		},
	}
}

func (a *Authenticator) Generate(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      a.issuer,
		AccountName: accountName,
		Period:      a.opts.Period,
		SecretSize:  20,
		Digits:      a.opts.Digits,
		Algorithm:   a.opts.Algorithm,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func (a *Authenticator) Validate(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, a.opts)
	return ok && err == nil
}

func (a *Authenticator) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, a.opts)
}
