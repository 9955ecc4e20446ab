package usecase

import (
	"context"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type VerifyCodeInput struct {
	NIC     string            `validate:"required,nic"`
	Purpose entity.OTPPurpose `validate:"required,oneof=Login PasswordReset EmailVerification"`
	Code    string            `validate:"required,otp_code"`
}

// VerifyCode is the public form of VerifyOTP, addressed by NIC.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) error {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	in.NIC = entity.NormalizeNIC(in.NIC)
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	citizen, err := s.citizenByNIC(ctx, in.NIC, goerror.NewBusiness("Invalid or already used code", goerror.CodeNotFound))
	if err != nil {
		return err
	}

	_, err = s.consumeOTP(ctx, citizen.ID, in.Purpose, in.Code)
	return err
}
