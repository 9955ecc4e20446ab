package inbound

import (
	"context"

	"github.com/lankagov/gnportal/internal/pkg/router"
	"github.com/lankagov/gnportal/internal/staff/entity"
	"github.com/lankagov/gnportal/internal/staff/usecase"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	LoginTOTP(ctx context.Context, in usecase.LoginTOTPInput) (*usecase.LoginOutput, error)

	TOTPSetup(ctx context.Context) (*usecase.TOTPSetupOutput, error)
	TOTPConfirm(ctx context.Context, in usecase.TOTPConfirmInput) error

	CreateStaff(ctx context.Context, in usecase.CreateStaffInput) (*entity.Staff, error)
}

// PublicEndpoints are the staff routes reachable without a token.
var PublicEndpoints = []string{
	"/api/v1/staff/login",
	"/api/v1/staff/login/totp",
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}
	throttle := r.Throttle("staff-auth")

	r.POST("/api/v1/staff/login", end.Login, throttle)
	r.POST("/api/v1/staff/login/totp", end.LoginTOTP, throttle)

	r.POST("/api/v1/staff/totp/setup", end.TOTPSetup)
	r.POST("/api/v1/staff/totp/confirm", end.TOTPConfirm, throttle)

	r.POST("/api/v1/staff/users", end.CreateStaff)
}
