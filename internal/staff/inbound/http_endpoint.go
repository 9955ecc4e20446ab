package inbound

import (
	"github.com/lankagov/gnportal/internal/pkg/router"
	"github.com/lankagov/gnportal/internal/staff/usecase"
)

// HTTPEndpoint exposes staff sign-in and account handlers.
type HTTPEndpoint struct {
	uc uc
}

func toLoginResponse(out *usecase.LoginOutput) LoginResponse {
	return LoginResponse{
		AccessToken:    out.AccessToken,
		ChallengeToken: out.ChallengeToken,
		TOTPRequired:   out.TOTPRequired,
	}
}

// Login checks staff credentials.
// @Summary Staff login
// @Description Returns an access token, or a challenge token when two-factor authentication is on.
// @Tags Staff
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} router.successResponse{data=LoginResponse}
// @Failure 401 {object} router.errorResponse "Invalid email or password"
// @Failure 403 {object} router.errorResponse "Account is not active"
// @Failure 429 {object} router.errorResponse "Too many requests"
// @Router /api/v1/staff/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Login(r.Context(), usecase.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, err
	}

	return toLoginResponse(out), nil
}

// LoginTOTP finishes a staff login with an authenticator code.
// @Summary Staff login second factor
// @Tags Staff
// @Accept json
// @Produce json
// @Param request body LoginTOTPRequest true "Challenge and code"
// @Success 200 {object} router.successResponse{data=LoginResponse}
// @Failure 401 {object} router.errorResponse "Invalid challenge or code"
// @Router /api/v1/staff/login/totp [post]
func (h *HTTPEndpoint) LoginTOTP(r *router.Request) (any, error) {
	var req LoginTOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.LoginTOTP(r.Context(), usecase.LoginTOTPInput{ChallengeToken: req.ChallengeToken, Code: req.Code})
	if err != nil {
		return nil, err
	}

	return toLoginResponse(out), nil
}

// TOTPSetup enrolls an authenticator.
// @Summary Start two-factor setup
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=TOTPSetupResponse}
// @Failure 409 {object} router.errorResponse "Already enabled"
// @Router /api/v1/staff/totp/setup [post]
func (h *HTTPEndpoint) TOTPSetup(r *router.Request) (any, error) {
	out, err := h.uc.TOTPSetup(r.Context())
	if err != nil {
		return nil, err
	}

	return TOTPSetupResponse{Secret: out.Secret, URI: out.URI}, nil
}

// TOTPConfirm turns two-factor authentication on.
// @Summary Confirm two-factor setup
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TOTPConfirmRequest true "Authenticator code"
// @Success 200 {object} router.successResponse{data=TOTPConfirmResponse}
// @Failure 409 {object} router.errorResponse "Not set up or already enabled"
// @Failure 422 {object} router.errorResponse "Code does not match"
// @Router /api/v1/staff/totp/confirm [post]
func (h *HTTPEndpoint) TOTPConfirm(r *router.Request) (any, error) {
	var req TOTPConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.TOTPConfirm(r.Context(), usecase.TOTPConfirmInput{Code: req.Code}); err != nil {
		return nil, err
	}

	return TOTPConfirmResponse{Enabled: true}, nil
}

// CreateStaff adds an officer or admin.
// @Summary Create staff account
// @Tags Staff, Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateStaffRequest true "Staff account"
// @Success 201 {object} router.successResponse{data=StaffResponse}
// @Failure 403 {object} router.errorResponse "Admins only"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/staff/users [post]
func (h *HTTPEndpoint) CreateStaff(r *router.Request) (any, error) {
	var req CreateStaffRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	st, err := h.uc.CreateStaff(r.Context(), usecase.CreateStaffInput{
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         req.Role,
		Password:     req.Password,
		DivisionCode: req.DivisionCode,
	})
	if err != nil {
		return nil, err
	}

	return StaffResponse{
		ID:         st.ID,
		Email:      st.Email,
		FullName:   st.FullName,
		Role:       st.Role,
		DivisionID: st.DivisionID,
		Status:     string(st.Status),
		CreatedAt:  st.CreatedAt,
	}, nil
}
