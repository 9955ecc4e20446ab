package inbound

import (
	"context"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/citizen/usecase"
	"github.com/lankagov/gnportal/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	RequestOTP(ctx context.Context, in usecase.RequestOTPInput) (*usecase.GenerateOTPOutput, error)
	VerifyCode(ctx context.Context, in usecase.VerifyCodeInput) error
	VerifyEmail(ctx context.Context, in usecase.VerifyEmailInput) error

	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	LoginVerify(ctx context.Context, in usecase.LoginVerifyInput) (*usecase.TokenOutput, error)
	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.TokenOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) error

	PasswordForgot(ctx context.Context, in usecase.PasswordForgotInput) error
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error

	Profile(ctx context.Context) (*entity.Profile, error)
}

// PublicEndpoints are the citizen routes reachable without a token.
var PublicEndpoints = []string{
	"/api/v1/citizen/register",
	"/api/v1/citizen/otp",
	"/api/v1/citizen/otp/verify",
	"/api/v1/citizen/email/verify",
	"/api/v1/citizen/login",
	"/api/v1/citizen/login/verify",
	"/api/v1/citizen/refresh",
	"/api/v1/citizen/logout",
	"/api/v1/citizen/password/forgot",
	"/api/v1/citizen/password/reset",
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}
	throttle := r.Throttle("citizen-auth")

	// Registration & codes
	r.POST("/api/v1/citizen/register", end.Register, throttle)
	r.POST("/api/v1/citizen/otp", end.RequestOTP, throttle)
	r.POST("/api/v1/citizen/otp/verify", end.VerifyOTP, throttle)
	r.POST("/api/v1/citizen/email/verify", end.VerifyEmail, throttle)

	// Sessions
	r.POST("/api/v1/citizen/login", end.Login, throttle)
	r.POST("/api/v1/citizen/login/verify", end.LoginVerify, throttle)
	r.POST("/api/v1/citizen/refresh", end.RefreshToken)
	r.POST("/api/v1/citizen/logout", end.Logout)

	// Password
	r.POST("/api/v1/citizen/password/forgot", end.PasswordForgot, throttle)
	r.POST("/api/v1/citizen/password/reset", end.PasswordReset, throttle)

	// Profile (need authenticated)
	r.GET("/api/v1/citizen/profile", end.Profile)
}
