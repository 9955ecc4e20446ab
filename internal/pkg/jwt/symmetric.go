package jwt

import (
	"errors"
	"strconv"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric signs with HS512.
type Symmetric struct {
	cfg Config
}

func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.ChallengeTTL <= 0 {
		cfg.ChallengeTTL = 5 * time.Minute
	}
	return &Symmetric{cfg: cfg}, nil
}

func (s *Symmetric) Generate(sub Subject) (string, error) {
	return s.sign(sub, KindAccess, s.cfg.TTL)
}

func (s *Symmetric) GenerateChallenge(sub Subject) (string, error) {
	return s.sign(sub, KindChallenge, s.cfg.ChallengeTTL)
}

func (s *Symmetric) Verify(token string) (Claims, error) {
	return s.parse(token, KindAccess)
}

func (s *Symmetric) VerifyChallenge(token string) (Claims, error) {
	return s.parse(token, KindChallenge)
}

func (s *Symmetric) sign(sub Subject, kind Kind, ttl time.Duration) (string, error) {
	now := s.cfg.Clock.Now()

	return libJWT.NewWithClaims(libJWT.SigningMethodHS512, Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        s.cfg.UUID.Generate(),
			Subject:   strconv.FormatInt(sub.ID, 10),
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audiences,
			IssuedAt:  libJWT.NewNumericDate(now),
			NotBefore: libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(now.Add(ttl)),
		},
		UserID:    sub.ID,
		UserEmail: sub.Email,
		Role:      sub.Role,
		Kind:      kind,
	}).SignedString(s.cfg.Secret)
}

func (s *Symmetric) parse(raw string, want Kind) (Claims, error) {
	var claims Claims

	token, err := libJWT.ParseWithClaims(raw, &claims,
		func(t *libJWT.Token) (any, error) {
			if t.Method != libJWT.SigningMethodHS512 {
				return nil, ErrInvalidSigningMethod
			}
			return s.cfg.Secret, nil
		},
		libJWT.WithIssuer(s.cfg.Issuer),
		libJWT.WithAudience(s.cfg.Audiences...),
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.cfg.Clock.Now),
	)
	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Kind != want {
		return Claims{}, ErrWrongKind
	}

	return claims, nil
}
