package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/hash"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/pkg/passcode"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultOTPTTL       = 10 * time.Minute
	defaultOTPRateMax   = 3
	defaultOTPRateWin   = 15 * time.Minute
	defaultRefreshTTL   = 7 * 24 * time.Hour
	refreshTokenEntropy = 32
)

// Notifier delivers a freshly issued code to the citizen. A failed delivery
// fails the request that issued the code.
type Notifier interface {
	Notify(ctx context.Context, msg entity.OTPMessage) error
}

type repoDB interface {
	GetCitizenByID(ctx context.Context, id int64) (*entity.Citizen, error)
	GetCitizenByNIC(ctx context.Context, nic string) (*entity.Citizen, error)
	GetCitizenProfile(ctx context.Context, id int64) (*entity.Profile, error)
	GetDivisionByCode(ctx context.Context, code string) (*entity.Division, error)
	CreateCitizen(ctx context.Context, c entity.Citizen) error
	MarkEmailVerified(ctx context.Context, id int64, at time.Time) error
	ResetPassword(ctx context.Context, id int64, hash string, at time.Time) error

	CountOTPSince(ctx context.Context, citizenID int64, purpose entity.OTPPurpose, since time.Time) (int, error)
	// CreateOTP expires every pending record of the same citizen and purpose
	// and inserts rec, in one transaction.
	CreateOTP(ctx context.Context, rec entity.OTPRecord) error
	GetPendingOTP(ctx context.Context, citizenID int64, purpose entity.OTPPurpose, codeHash string) (*entity.OTPRecord, error)
	// UpdateOTPStatus moves a record from one status to another and reports
	// whether this call won the transition.
	UpdateOTPStatus(ctx context.Context, id int64, from, to entity.OTPStatus, at time.Time) (bool, error)
	ExpirePendingOTP(ctx context.Context, now time.Time) (int64, error)

	CreateRefreshToken(ctx context.Context, rt entity.RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)
	// RotateRefreshToken returns goerror.ErrConflict when oldID is already revoked.
	RotateRefreshToken(ctx context.Context, oldID int64, next entity.RefreshToken, at time.Time) error
	RevokeRefreshToken(ctx context.Context, tokenHash string, at time.Time) error
	RevokeAllRefreshTokens(ctx context.Context, citizenID int64, at time.Time) error
}

type Usecase struct {
	repoDB    repoDB
	notifier  Notifier
	validator validator.Validator
	cfg       config.Config
	bcrypt    hash.Hash
	hmac      hash.Hash
	passcode  passcode.Generator
	uid       uid.NumberID
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation

	otpIssued   metric.Int64Counter
	otpVerified metric.Int64Counter
	otpSwept    metric.Int64Counter
}

type Dependency struct {
	RepoDB     repoDB
	Notifier   Notifier
	Validator  validator.Validator
	Config     config.Config
	Bcrypt     hash.Hash
	HMAC       hash.Hash
	Passcode   passcode.Generator
	UID        uid.NumberID
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("citizen.usecase")
	issued, _ := meter.Int64Counter("otp.issued", metric.WithDescription("One-time codes issued"))
	verified, _ := meter.Int64Counter("otp.verified", metric.WithDescription("One-time codes verified"))
	swept, _ := meter.Int64Counter("sweeper.expired", metric.WithDescription("Pending codes expired by the sweeper"))

	return &Usecase{
		repoDB:      dep.RepoDB,
		notifier:    dep.Notifier,
		validator:   dep.Validator,
		cfg:         dep.Config,
		bcrypt:      dep.Bcrypt,
		hmac:        dep.HMAC,
		passcode:    dep.Passcode,
		uid:         dep.UID,
		clock:       dep.Clock,
		jwt:         dep.JWT,
		ins:         dep.Instrument,
		otpIssued:   issued,
		otpVerified: verified,
		otpSwept:    swept,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("citizen.usecase").Start(ctx, name)
}

func (s *Usecase) countOTP(ctx context.Context, c metric.Int64Counter, n int64, purpose entity.OTPPurpose) {
	if c == nil {
		return
	}
	c.Add(ctx, n, metric.WithAttributes(attribute.String("purpose", purpose.String())))
}

func (s *Usecase) otpTTL() time.Duration {
	if d := s.cfg.GetMinute("otp.ttl_minutes"); d > 0 {
		return d
	}
	return defaultOTPTTL
}

func (s *Usecase) otpRateLimit() (int, time.Duration) {
	limit, window := s.cfg.GetInt("otp.rate_limit.max"), s.cfg.GetMinute("otp.rate_limit.window_minutes")
	if limit <= 0 {
		limit = defaultOTPRateMax
	}
	if window <= 0 {
		window = defaultOTPRateWin
	}
	return limit, window
}

func (s *Usecase) refreshTTL() time.Duration {
	if d := s.cfg.GetDay("jwt.refresh_ttl_days"); d > 0 {
		return d
	}
	return defaultRefreshTTL
}

// citizenByNIC resolves a citizen for an unauthenticated flow. notFound is
// the business error returned when nobody holds nic.
func (s *Usecase) citizenByNIC(ctx context.Context, nic string, notFound error) (*entity.Citizen, error) {
	c, err := s.repoDB.GetCitizenByNIC(ctx, nic)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "citizen not found by nic")
		return nil, notFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get citizen by nic", "error", err)
		return nil, goerror.NewServer(err)
	}
	return c, nil
}
