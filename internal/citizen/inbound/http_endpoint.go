package inbound

import (
	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/citizen/usecase"
	"github.com/lankagov/gnportal/internal/pkg/router"
)

// HTTPEndpoint exposes citizen registration, code and session handlers.
type HTTPEndpoint struct {
	uc uc
}

func requestMeta(r *router.Request) entity.RequestMeta {
	return entity.RequestMeta{IP: r.ClientIP(), UserAgent: r.UserAgent()}
}

// Register creates a citizen account.
// @Summary Register citizen
// @Description Creates an account and emails an EmailVerification code.
// @Tags Citizen
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} router.successResponse{data=RegisterResponse}
// @Failure 409 {object} router.errorResponse "NIC or email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many requests"
// @Router /api/v1/citizen/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		NIC:          req.NIC,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		DivisionCode: req.DivisionCode,
		Meta:         requestMeta(r),
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{CitizenID: out.CitizenID, OTPExpiresAt: out.OTPExpiresAt}, nil
}

// RequestOTP sends a new one-time code.
// @Summary Request one-time code
// @Description Issues a code for Login, PasswordReset or EmailVerification. At most 3 per 15 minutes.
// @Tags Citizen, OTP
// @Accept json
// @Produce json
// @Param request body RequestOTPRequest true "Code request"
// @Success 200 {object} router.successResponse{data=OTPIssuedResponse}
// @Failure 404 {object} router.errorResponse "Citizen not found"
// @Failure 429 {object} router.errorResponse "Too many code requests"
// @Router /api/v1/citizen/otp [post]
func (h *HTTPEndpoint) RequestOTP(r *router.Request) (any, error) {
	var req RequestOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.RequestOTP(r.Context(), usecase.RequestOTPInput{
		NIC:     req.NIC,
		Purpose: entity.OTPPurpose(req.Purpose),
		Meta:    requestMeta(r),
	})
	if err != nil {
		return nil, err
	}

	return OTPIssuedResponse{Purpose: out.Purpose.String(), ExpiresAt: out.ExpiresAt}, nil
}

// VerifyOTP consumes a code.
// @Summary Verify one-time code
// @Tags Citizen, OTP
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Code"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse}
// @Failure 404 {object} router.errorResponse "Invalid or already used code"
// @Failure 410 {object} router.errorResponse "Code has expired"
// @Router /api/v1/citizen/otp/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		NIC:     req.NIC,
		Purpose: entity.OTPPurpose(req.Purpose),
		Code:    req.Code,
	}); err != nil {
		return nil, err
	}

	return VerifyOTPResponse{Verified: true}, nil
}

// VerifyEmail confirms the citizen's email address.
// @Summary Verify email
// @Tags Citizen
// @Accept json
// @Produce json
// @Param request body VerifyEmailRequest true "Email verification code"
// @Success 200 {object} router.successResponse{data=VerifyEmailResponse}
// @Failure 404 {object} router.errorResponse "Invalid or already used code"
// @Failure 410 {object} router.errorResponse "Code has expired"
// @Router /api/v1/citizen/email/verify [post]
func (h *HTTPEndpoint) VerifyEmail(r *router.Request) (any, error) {
	var req VerifyEmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.VerifyEmail(r.Context(), usecase.VerifyEmailInput{NIC: req.NIC, Code: req.Code}); err != nil {
		return nil, err
	}

	return VerifyEmailResponse{}, nil
}

// Login checks the password and sends a login code.
// @Summary Citizen login
// @Description First step of login. Sends a Login code to the verified email.
// @Tags Citizen, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} router.successResponse{data=LoginResponse}
// @Failure 401 {object} router.errorResponse "Invalid NIC or password"
// @Failure 403 {object} router.errorResponse "Email not verified"
// @Router /api/v1/citizen/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Login(r.Context(), usecase.LoginInput{
		NIC:      req.NIC,
		Password: req.Password,
		Meta:     requestMeta(r),
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{OTPRequired: true, OTPExpiresAt: out.OTPExpiresAt, SentTo: out.MaskedEmail}, nil
}

// LoginVerify exchanges a login code for tokens.
// @Summary Complete citizen login
// @Tags Citizen, Authentication
// @Accept json
// @Produce json
// @Param request body LoginVerifyRequest true "Login code"
// @Success 200 {object} router.successResponse{data=TokenResponse}
// @Failure 404 {object} router.errorResponse "Invalid or already used code"
// @Failure 410 {object} router.errorResponse "Code has expired"
// @Router /api/v1/citizen/login/verify [post]
func (h *HTTPEndpoint) LoginVerify(r *router.Request) (any, error) {
	var req LoginVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.LoginVerify(r.Context(), usecase.LoginVerifyInput{NIC: req.NIC, Code: req.Code})
	if err != nil {
		return nil, err
	}

	return TokenResponse{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken, TokenType: "Bearer"}, nil
}

// RefreshToken rotates a refresh token.
// @Summary Refresh tokens
// @Tags Citizen, Authentication
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token"
// @Success 200 {object} router.successResponse{data=TokenResponse}
// @Failure 401 {object} router.errorResponse "Invalid or expired refresh token"
// @Router /api/v1/citizen/refresh [post]
func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}

	return TokenResponse{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken, TokenType: "Bearer"}, nil
}

// Logout revokes a refresh token.
// @Summary Logout
// @Tags Citizen, Authentication
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Refresh token"
// @Success 200 {object} router.successResponse{data=LogoutResponse}
// @Router /api/v1/citizen/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return nil, err
	}

	return LogoutResponse{}, nil
}

// PasswordForgot sends a password reset code.
// @Summary Forgot password
// @Tags Citizen, Password
// @Accept json
// @Produce json
// @Param request body PasswordForgotRequest true "NIC"
// @Success 200 {object} router.successResponse{data=PasswordForgotResponse}
// @Failure 429 {object} router.errorResponse "Too many code requests"
// @Router /api/v1/citizen/password/forgot [post]
func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput{NIC: req.NIC, Meta: requestMeta(r)}); err != nil {
		return nil, err
	}

	return PasswordForgotResponse{}, nil
}

// PasswordReset sets a new password using a reset code.
// @Summary Reset password
// @Tags Citizen, Password
// @Accept json
// @Produce json
// @Param request body PasswordResetRequest true "Reset payload"
// @Success 200 {object} router.successResponse{data=PasswordResetResponse}
// @Failure 404 {object} router.errorResponse "Invalid or already used code"
// @Failure 410 {object} router.errorResponse "Code has expired"
// @Router /api/v1/citizen/password/reset [post]
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		NIC:         req.NIC,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordResetResponse{}, nil
}

// Profile returns the caller's profile.
// @Summary Citizen profile
// @Tags Citizen
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=ProfileResponse}
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Router /api/v1/citizen/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	p, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	resp := ProfileResponse{
		ID:              p.Citizen.ID,
		NIC:             p.Citizen.NIC,
		FullName:        p.Citizen.FullName,
		Email:           p.Citizen.Email,
		Phone:           p.Citizen.Phone,
		Status:          p.Citizen.Status.String(),
		EmailVerifiedAt: p.Citizen.EmailVerifiedAt,
	}
	if p.Division != nil {
		resp.Division = &DivisionResponse{
			ID:          p.Division.ID,
			Code:        p.Division.Code,
			Name:        p.Division.Name,
			OfficerName: p.OfficerName,
		}
	}

	return resp, nil
}
