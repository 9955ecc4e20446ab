package inbound

import (
	"net/http"
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken    string `json:"access_token,omitempty"`
	ChallengeToken string `json:"challenge_token,omitempty"`
	TOTPRequired   bool   `json:"totp_required"`
}

type LoginTOTPRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Code           string `json:"code"`
}

type TOTPSetupResponse struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

func (TOTPSetupResponse) Message() string {
	return "Scan the code with your authenticator app, then confirm with a code from it."
}

type TOTPConfirmRequest struct {
	Code string `json:"code"`
}

type TOTPConfirmResponse struct {
	Enabled bool `json:"enabled"`
}

func (TOTPConfirmResponse) Message() string { return "Two-factor authentication enabled." }

type CreateStaffRequest struct {
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role" example:"officer"`
	Password     string `json:"password"`
	DivisionCode string `json:"division_code"`
}

type StaffResponse struct {
	ID         int64     `json:"id,string"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	DivisionID *int64    `json:"division_id,string,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (StaffResponse) StatusCode() int { return http.StatusCreated }
