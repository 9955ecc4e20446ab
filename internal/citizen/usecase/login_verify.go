package usecase

import (
	"context"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type LoginVerifyInput struct {
	NIC  string `validate:"required,nic"`
	Code string `validate:"required,otp_code"`
}

type TokenOutput struct {
	AccessToken  string
	RefreshToken string
}

func (s *Usecase) LoginVerify(ctx context.Context, in LoginVerifyInput) (*TokenOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginVerify")
	defer span.End()

	in.NIC = entity.NormalizeNIC(in.NIC)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	citizen, err := s.citizenByNIC(ctx, in.NIC, goerror.NewBusiness("Invalid or already used code", goerror.CodeNotFound))
	if err != nil {
		return nil, err
	}

	if _, err := s.consumeOTP(ctx, citizen.ID, entity.OTPPurposeLogin, in.Code); err != nil {
		return nil, err
	}

	if !citizen.IsActive() {
		return nil, goerror.NewBusiness("Account is not active", goerror.CodeForbidden)
	}

	return s.issueTokens(ctx, citizen, 0)
}
