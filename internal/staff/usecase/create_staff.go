package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/staff/entity"
)

type CreateStaffInput struct {
	Email        string `validate:"required,email,max=255"`
	FullName     string `validate:"required,max=255"`
	Role         string `validate:"required,oneof=officer admin"`
	Password     string `validate:"required,password"`
	DivisionCode string `validate:"max=32"`
}

// CreateStaff adds an officer or admin account. An officer created with a
// division becomes that division's officer.
func (s *Usecase) CreateStaff(ctx context.Context, in CreateStaffInput) (*entity.Staff, error) {
	ctx, span := s.startSpan(ctx, "CreateStaff")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if clm.Role != jwt.RoleAdmin {
		return nil, goerror.NewBusiness("You are not allowed to perform this action", goerror.CodeForbidden)
	}

	return s.createStaff(ctx, in)
}

// BootstrapAdmin creates the first admin account when it does not exist yet.
func (s *Usecase) BootstrapAdmin(ctx context.Context, email, fullName, password string) error {
	ctx, span := s.startSpan(ctx, "BootstrapAdmin")
	defer span.End()

	_, err := s.repoDB.GetStaffByEmail(ctx, entity.NormalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		return err
	}

	_, err = s.createStaff(ctx, CreateStaffInput{Email: email, FullName: fullName, Role: jwt.RoleAdmin, Password: password})
	if goerror.CodeOf(err) == goerror.CodeConflict {
		return nil
	}
	if err == nil {
		slog.InfoContext(ctx, "bootstrap admin created", "email", entity.NormalizeEmail(email))
	}
	return err
}

func (s *Usecase) createStaff(ctx context.Context, in CreateStaffInput) (*entity.Staff, error) {
	in.Email = entity.NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.DivisionCode = strings.ToUpper(strings.TrimSpace(in.DivisionCode))
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var divisionID *int64
	if in.DivisionCode != "" {
		id, err := s.repoDB.GetDivisionIDByCode(ctx, in.DivisionCode)
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewInvalidInput(nil, "division_code", "unknown division")
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get division", "division_code", in.DivisionCode, "error", err)
			return nil, goerror.NewServer(err)
		}
		divisionID = &id
	}

	hashed, err := s.argon2.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash staff password", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	st := entity.Staff{
		ID:           s.uid.Generate(),
		Email:        in.Email,
		FullName:     in.FullName,
		Role:         in.Role,
		DivisionID:   divisionID,
		PasswordHash: string(hashed),
		Status:       entity.StaffStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.repoDB.CreateStaff(ctx, st)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "staff email already exists")
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create staff", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &st, nil
}
