package usecase

import (
	"context"
	"log/slog"
	"time"
	_ "time/tzdata" // zone names must resolve in slim images

	"github.com/lankagov/gnportal/internal/notification/entity"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"github.com/lankagov/gnportal/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoMail interface {
	Send(ctx context.Context, e entity.Email) error
}

type Usecase struct {
	repoMail  repoMail
	validator validator.Validator
	loc       *time.Location
	ins       instrument.Instrumentation
	sent      metric.Int64Counter
}

type Dependency struct {
	RepoMail   repoMail
	Validator  validator.Validator
	Config     config.Config
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	loc := time.UTC
	if name := dep.Config.GetString("notification.timezone"); name != "" {
		if l, err := time.LoadLocation(name); err == nil {
			loc = l
		} else {
			slog.Warn("unknown notification timezone, using UTC", "timezone", name, "error", err)
		}
	}

	sent, err := dep.Instrument.Meter("notification.usecase").Int64Counter("notification.email.sent",
		metric.WithDescription("Emails handed to the mail server, by kind and outcome"))
	if err != nil {
		slog.Warn("failed to create notification counter", "error", err)
	}

	return &Usecase{
		repoMail:  dep.RepoMail,
		validator: dep.Validator,
		loc:       loc,
		ins:       dep.Instrument,
		sent:      sent,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) deliver(ctx context.Context, e entity.Email) error {
	err := s.repoMail.Send(ctx, e)

	if s.sent != nil {
		outcome := "ok"
		if err != nil {
			outcome = "failed"
		}
		s.sent.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", e.Kind.String()),
			attribute.String("outcome", outcome),
		))
	}

	if err != nil {
		slog.ErrorContext(ctx, "failed to send email", "kind", e.Kind.String(), "to", e.To, "error", err)
		return goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "email sent", "kind", e.Kind.String(), "to", e.To)
	return nil
}

// SendOTP delivers a one-time code synchronously so the caller sees a failed
// delivery.
func (s *Usecase) SendOTP(ctx context.Context, msg event.OTPCodeMessage) error {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	in := otpInput{Email: msg.Email, Purpose: msg.Purpose, Code: msg.Code}
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	return s.deliver(ctx, entity.OTP{
		Email:     msg.Email,
		FullName:  msg.FullName,
		Purpose:   msg.Purpose,
		Code:      msg.Code,
		ExpiresAt: msg.ExpiresAt,
	}.Render(s.loc))
}

type otpInput struct {
	Email   string `validate:"required,email"`
	Purpose string `validate:"required"`
	Code    string `validate:"required"`
}
