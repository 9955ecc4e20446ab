package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lankagov/gnportal/internal/notification/entity"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"github.com/lankagov/gnportal/internal/shared/event"
)

type fakeMail struct {
	mu   sync.Mutex
	sent []entity.Email
	err  error
}

func (m *fakeMail) Send(_ context.Context, e entity.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

func newUsecase(t *testing.T, m *fakeMail) *Usecase {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("notification:\n  timezone: Asia/Colombo\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	return New(Dependency{RepoMail: m, Validator: v, Config: cfg, Instrument: instrument.NewNoop()})
}

func appointmentMessage() event.AppointmentMessage {
	return event.AppointmentMessage{
		AppointmentID: 1001,
		CitizenID:     1,
		CitizenEmail:  "nimal@example.lk",
		CitizenName:   "Nimal Perera",
		ServiceCode:   "GNS001",
		ServiceName:   "Character certificate",
		Date:          "2025-08-20",
		StartTime:     "09:00",
		EndTime:       "09:30",
	}
}

func TestUsecase_SendOTP(t *testing.T) {
	// Arrange
	m := &fakeMail{}
	uc := newUsecase(t, m)

	// Act
	err := uc.SendOTP(context.Background(), event.OTPCodeMessage{
		CitizenID: 1,
		Email:     "nimal@example.lk",
		FullName:  "Nimal Perera",
		Purpose:   "Login",
		Code:      "482913",
		ExpiresAt: time.Date(2025, 8, 19, 9, 10, 0, 0, time.UTC),
	})

	// Assert
	if err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}
	if len(m.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(m.sent))
	}
	if e := m.sent[0]; e.Subject != "Your sign-in code" || !strings.Contains(e.Body, "14:40") {
		t.Fatalf("unexpected email: %+v", e)
	}
}

func TestUsecase_SendOTP_Errors(t *testing.T) {
	t.Run("invalid email", func(t *testing.T) {
		uc := newUsecase(t, &fakeMail{})

		err := uc.SendOTP(context.Background(), event.OTPCodeMessage{Email: "nimal", Purpose: "Login", Code: "1"})

		if goerror.CodeOf(err) != goerror.CodeInvalidInput {
			t.Fatalf("error = %v, want invalid input", err)
		}
	})

	t.Run("mail server down", func(t *testing.T) {
		uc := newUsecase(t, &fakeMail{err: errors.New("dial tcp: refused")})

		err := uc.SendOTP(context.Background(), event.OTPCodeMessage{Email: "nimal@example.lk", Purpose: "Login", Code: "1"})

		if goerror.CodeOf(err) != goerror.CodeInternal {
			t.Fatalf("error = %v, want internal", err)
		}
	})
}

func TestUsecase_AppointmentEvents(t *testing.T) {
	// Arrange
	m := &fakeMail{}
	uc := newUsecase(t, m)
	ctx := context.Background()
	msg := appointmentMessage()

	// Act
	errConfirmed := uc.AppointmentConfirmed(ctx, msg)
	msg.Reason = "Officer on leave"
	errCancelled := uc.AppointmentCancelled(ctx, msg)

	// Assert
	if errConfirmed != nil || errCancelled != nil {
		t.Fatalf("errors = %v, %v", errConfirmed, errCancelled)
	}
	if len(m.sent) != 2 {
		t.Fatalf("sent = %d, want 2", len(m.sent))
	}
	if m.sent[0].Kind != entity.KindAppointmentConfirmed || m.sent[1].Kind != entity.KindAppointmentCancelled {
		t.Fatalf("kinds = %s, %s", m.sent[0].Kind, m.sent[1].Kind)
	}
	if m.sent[1].To != "nimal@example.lk" {
		t.Fatalf("To = %q", m.sent[1].To)
	}
}

func TestUsecase_AppointmentEvents_InvalidPayload(t *testing.T) {
	m := &fakeMail{}
	uc := newUsecase(t, m)
	msg := appointmentMessage()
	msg.CitizenEmail = ""

	err := uc.AppointmentConfirmed(context.Background(), msg)

	if goerror.CodeOf(err) != goerror.CodeInvalidInput {
		t.Fatalf("error = %v, want invalid input", err)
	}
	if len(m.sent) != 0 {
		t.Fatal("invalid payload must not be mailed")
	}
}
