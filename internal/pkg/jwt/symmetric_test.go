package jwt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type staticID struct{}

func (staticID) Generate() string { return "jti-1" }

func newTestJWT(t *testing.T, clk *fixedClock) *Symmetric {
	t.Helper()
	j, err := NewHS512(Config{
		Secret:       []byte(strings.Repeat("k", 64)),
		Issuer:       "gnportal",
		Audiences:    []string{"gnportal-web"},
		TTL:          15 * time.Minute,
		ChallengeTTL: 5 * time.Minute,
		Clock:        clk,
		UUID:         staticID{},
	})
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}
	return j
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	clk := &fixedClock{now: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}
	j := newTestJWT(t, clk)

	t.Run("access token round trip", func(t *testing.T) {
		// Arrange
		token, err := j.Generate(Subject{ID: 42, Email: "nimal@example.lk", Role: RoleCitizen})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		claims, err := j.Verify(token)

		// Assert
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if claims.UserID != 42 || claims.Role != RoleCitizen || claims.Kind != KindAccess {
			t.Fatalf("unexpected claims: %+v", claims)
		}
	})

	t.Run("challenge token is not an access token", func(t *testing.T) {
		token, err := j.GenerateChallenge(Subject{ID: 7, Role: RoleOfficer})
		if err != nil {
			t.Fatalf("GenerateChallenge() error = %v", err)
		}
		if _, err := j.Verify(token); !errors.Is(err, ErrWrongKind) {
			t.Fatalf("Verify(challenge) error = %v, want ErrWrongKind", err)
		}
		if _, err := j.VerifyChallenge(token); err != nil {
			t.Fatalf("VerifyChallenge() error = %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, _ := j.Generate(Subject{ID: 1, Role: RoleCitizen})
		clk.now = clk.now.Add(16 * time.Minute)
		defer func() { clk.now = clk.now.Add(-16 * time.Minute) }()

		if _, err := j.Verify(token); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("Verify() error = %v, want ErrTokenExpired", err)
		}
	})
}

func TestNewHS512_ShortKey(t *testing.T) {
	if _, err := NewHS512(Config{Secret: []byte("short")}); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("error = %v, want ErrSigningKeyTooShort", err)
	}
}

func TestAuthContext(t *testing.T) {
	if GetAuth(context.Background()) != nil {
		t.Fatal("empty context must have no claims")
	}
	ctx := SetAuth(context.Background(), Claims{UserID: 9, Role: RoleAdmin})
	if got := GetAuth(ctx); got == nil || got.UserID != 9 {
		t.Fatalf("GetAuth() = %+v", got)
	}
}
