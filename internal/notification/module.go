package notification

import (
	"context"

	"github.com/lankagov/gnportal/internal/notification/inbound"
	"github.com/lankagov/gnportal/internal/notification/outbound/email"
	"github.com/lankagov/gnportal/internal/notification/usecase"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goroutine"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/mail"
	"github.com/lankagov/gnportal/internal/pkg/messaging"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"github.com/lankagov/gnportal/internal/shared/event"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	Messaging  messaging.Consumer         `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
}

// Notification is what other modules may call directly.
type Notification interface {
	SendOTP(ctx context.Context, msg event.OTPCodeMessage) error
}

// New starts the appointment consumers and returns the in-process sender.
func New(dep Dependency) (Notification, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	uc := usecase.New(usecase.Dependency{
		RepoMail:   email.New(dep.Mail, dep.Config.GetString("mail.from"), dep.Instrument),
		Validator:  dep.Validator,
		Config:     dep.Config,
		Instrument: dep.Instrument,
	})

	inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return uc, nil
}
