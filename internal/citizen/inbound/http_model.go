package inbound

import (
	"net/http"
	"time"
)

type RegisterRequest struct {
	NIC          string `json:"nic"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	DivisionCode string `json:"division_code"`
}

type RegisterResponse struct {
	CitizenID    int64     `json:"citizen_id,string"`
	OTPExpiresAt time.Time `json:"otp_expires_at"`
}

func (RegisterResponse) StatusCode() int { return http.StatusCreated }

func (RegisterResponse) Message() string {
	return "Registration successful. Please check your email for the verification code."
}

type RequestOTPRequest struct {
	NIC     string `json:"nic"`
	Purpose string `json:"purpose" example:"Login"`
}

type OTPIssuedResponse struct {
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (OTPIssuedResponse) Message() string {
	return "A verification code has been sent to your email."
}

type VerifyOTPRequest struct {
	NIC     string `json:"nic"`
	Purpose string `json:"purpose"`
	Code    string `json:"code"`
}

type VerifyOTPResponse struct {
	Verified bool `json:"verified"`
}

type VerifyEmailRequest struct {
	NIC  string `json:"nic"`
	Code string `json:"code"`
}

type VerifyEmailResponse struct{}

func (VerifyEmailResponse) Message() string { return "Email verified. You can now log in." }

type LoginRequest struct {
	NIC      string `json:"nic"`
	Password string `json:"password"`
}

type LoginResponse struct {
	OTPRequired  bool      `json:"otp_required"`
	OTPExpiresAt time.Time `json:"otp_expires_at"`
	SentTo       string    `json:"sent_to"`
}

type LoginVerifyRequest struct {
	NIC  string `json:"nic"`
	Code string `json:"code"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct{}

func (LogoutResponse) Message() string { return "Logged out" }

type PasswordForgotRequest struct {
	NIC string `json:"nic"`
}

type PasswordForgotResponse struct{}

func (PasswordForgotResponse) Message() string {
	return "If an account with that NIC exists, a reset code has been sent to its email."
}

type PasswordResetRequest struct {
	NIC         string `json:"nic"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type PasswordResetResponse struct{}

func (PasswordResetResponse) Message() string { return "Password updated. Please log in again." }

type DivisionResponse struct {
	ID          int64  `json:"id,string"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	OfficerName string `json:"officer_name,omitempty"`
}

type ProfileResponse struct {
	ID              int64             `json:"id,string"`
	NIC             string            `json:"nic"`
	FullName        string            `json:"full_name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	Status          string            `json:"status"`
	EmailVerifiedAt *time.Time        `json:"email_verified_at"`
	Division        *DivisionResponse `json:"division"`
}
