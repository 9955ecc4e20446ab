package usecase

import (
	"context"
	"log/slog"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

type RequestOTPInput struct {
	NIC     string            `validate:"required,nic"`
	Purpose entity.OTPPurpose `validate:"required,oneof=Login PasswordReset EmailVerification"`
	Meta    entity.RequestMeta
}

// RequestOTP resends a code for a purpose. Email verification codes are not
// sent once the email is verified.
func (s *Usecase) RequestOTP(ctx context.Context, in RequestOTPInput) (*GenerateOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestOTP")
	defer span.End()

	in.NIC = entity.NormalizeNIC(in.NIC)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	citizen, err := s.citizenByNIC(ctx, in.NIC, goerror.NewBusiness("Citizen not found", goerror.CodeNotFound))
	if err != nil {
		return nil, err
	}

	if in.Purpose == entity.OTPPurposeEmailVerification && citizen.IsEmailVerified() {
		slog.WarnContext(ctx, "email already verified", "citizen_id", citizen.ID)
		return nil, goerror.NewBusiness("Email is already verified", goerror.CodeInvalidState)
	}

	return s.issueOTP(ctx, citizen, in.Purpose, in.Meta)
}
