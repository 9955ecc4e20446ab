package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type RegisterInput struct {
	NIC          string `validate:"required,nic"`
	FullName     string `validate:"required,min=3,max=255"`
	Email        string `validate:"required,email,max=255"`
	Phone        string `validate:"omitempty,phone"`
	Password     string `validate:"required,password"`
	DivisionCode string `validate:"omitempty,max=32"`
	Meta         entity.RequestMeta
}

type RegisterOutput struct {
	CitizenID    int64
	OTPExpiresAt time.Time
}

// Register creates an active citizen with an unverified email and sends the
// email verification code.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.NIC = entity.NormalizeNIC(in.NIC)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.DivisionCode = strings.ToUpper(strings.TrimSpace(in.DivisionCode))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var divisionID *int64
	if in.DivisionCode != "" {
		div, err := s.repoDB.GetDivisionByCode(ctx, in.DivisionCode)
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewInvalidInput(nil, "division_code", "division does not exist")
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get division by code", "division_code", in.DivisionCode, "error", err)
			return nil, goerror.NewServer(err)
		}
		divisionID = &div.ID
	}

	hashed, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	citizen := entity.Citizen{
		ID:           s.uid.Generate(),
		NIC:          in.NIC,
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hashed),
		DivisionID:   divisionID,
		Status:       entity.CitizenStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.repoDB.CreateCitizen(ctx, citizen)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "citizen already registered", "email", in.Email)
		return nil, goerror.NewBusiness("NIC or email already registered", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create citizen", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	otp, err := s.issueOTP(ctx, &citizen, entity.OTPPurposeEmailVerification, in.Meta)
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{CitizenID: citizen.ID, OTPExpiresAt: otp.ExpiresAt}, nil
}
