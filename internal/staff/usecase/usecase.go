package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/hash"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/pkg/mfa"
	"github.com/lankagov/gnportal/internal/pkg/totp"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"github.com/lankagov/gnportal/internal/staff/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetStaffByEmail(ctx context.Context, email string) (*entity.Staff, error)
	GetStaffByID(ctx context.Context, id int64) (*entity.Staff, error)
	GetDivisionIDByCode(ctx context.Context, code string) (int64, error)
	// CreateStaff inserts st and, for an officer with a division, makes them
	// the officer of that division.
	CreateStaff(ctx context.Context, st entity.Staff) error
	SaveTOTPSecret(ctx context.Context, id int64, sealed []byte, at time.Time) error
	// EnableTOTP turns on the second factor when a secret is saved and it is
	// not enabled yet, and reports whether it did.
	EnableTOTP(ctx context.Context, id int64, at time.Time) (bool, error)
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	argon2    hash.Hash
	totp      totp.TOTP
	mfa       mfa.Encryptor
	jwt       jwt.JWT
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	Argon2     hash.Hash
	TOTP       totp.TOTP
	MFA        mfa.Encryptor
	JWT        jwt.JWT
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		argon2:    dep.Argon2,
		totp:      dep.TOTP,
		mfa:       dep.MFA,
		jwt:       dep.JWT,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("staff.usecase").Start(ctx, name)
}

func seedScope(staffID int64) mfa.Scope {
	return mfa.Scope{OwnerID: staffID, Purpose: mfa.PurposeTOTPSeed}
}

// me loads the authenticated staff member.
func (s *Usecase) me(ctx context.Context) (*entity.Staff, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if clm.Role != jwt.RoleOfficer && clm.Role != jwt.RoleAdmin {
		return nil, goerror.NewBusiness("You are not allowed to perform this action", goerror.CodeForbidden)
	}

	st, err := s.repoDB.GetStaffByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "staff not found", "staff_id", clm.UserID)
		return nil, goerror.NewBusiness("Staff account not found", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get staff by id", "staff_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}
	return st, nil
}

func (s *Usecase) openSeed(ctx context.Context, st *entity.Staff) (string, error) {
	seed, err := s.mfa.Decrypt(st.TOTPSecret, seedScope(st.ID))
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt totp seed", "staff_id", st.ID, "error", err)
		return "", goerror.NewServer(err)
	}
	return string(seed), nil
}
