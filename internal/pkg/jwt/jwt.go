// Package jwt issues and verifies the signed tokens carried in the
// Authorization header, and moves verified claims through request contexts.
package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSigningMethod = errors.New("jwt: invalid signing method")
	ErrSigningKeyTooShort   = errors.New("jwt: HS512 signing key must be at least 64 bytes")
	ErrTokenExpired         = errors.New("jwt: token has expired")
	ErrInvalidToken         = errors.New("jwt: invalid token")
	ErrWrongKind            = errors.New("jwt: token kind not accepted here")
)

// Roles carried in the role claim.
const (
	RoleCitizen = "citizen"
	RoleOfficer = "officer"
	RoleAdmin   = "admin"
)

// Kind separates full access tokens from the short lived challenge token
// handed out between the password and TOTP steps of a staff login.
type Kind string

const (
	KindAccess    Kind = "access"
	KindChallenge Kind = "challenge"
)

// Subject is who a token is issued for.
type Subject struct {
	ID    int64
	Email string
	Role  string
}

// JWT issues and verifies tokens.
type JWT interface {
	Generate(sub Subject) (string, error)
	GenerateChallenge(sub Subject) (string, error)
	// Verify accepts access tokens only.
	Verify(token string) (Claims, error)
	// VerifyChallenge accepts challenge tokens only.
	VerifyChallenge(token string) (Claims, error)
}

// Claims is the token payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,string"`
	UserEmail string `json:"user_email"`
	Role      string `json:"role"`
	Kind      Kind   `json:"kind"`
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config builds a JWT implementation.
type Config struct {
	Secret       []byte
	Issuer       string
	Audiences    []string
	TTL          time.Duration
	ChallengeTTL time.Duration
	Clock        clocker
	UUID         generator
}

type authKey struct{}

// GetAuth returns the verified claims of the caller, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}

// SetAuth stores verified claims on ctx.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}
