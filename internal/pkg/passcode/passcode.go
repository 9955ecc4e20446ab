// Package passcode generates the numeric one-time codes sent to citizens.
package passcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Generator returns a fresh code on each call.
type Generator interface {
	Generate() (string, error)
}

// Numeric draws codes uniformly from [0, 10^digits) and zero pads them, so
// "000417" is as likely as "999999".
type Numeric struct {
	digits int
	limit  *big.Int
}

// NewNumeric accepts 4 to 9 digits.
func NewNumeric(digits int) (*Numeric, error) {
	if digits < 4 || digits > 9 {
		return nil, errors.New("passcode: digits must be between 4 and 9")
	}
	return &Numeric{
		digits: digits,
		limit:  new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil),
	}, nil
}

func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, n.limit)
	if err != nil {
		return "", fmt.Errorf("passcode: %w", err)
	}
	return fmt.Sprintf("%0*d", n.digits, v.Int64()), nil
}
