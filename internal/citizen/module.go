package citizen

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lankagov/gnportal/internal/citizen/inbound"
	"github.com/lankagov/gnportal/internal/citizen/outbound/db"
	"github.com/lankagov/gnportal/internal/citizen/outbound/notify"
	"github.com/lankagov/gnportal/internal/citizen/usecase"
	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goroutine"
	"github.com/lankagov/gnportal/internal/pkg/hash"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/pkg/passcode"
	"github.com/lankagov/gnportal/internal/pkg/router"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"github.com/lankagov/gnportal/internal/shared/event"
)

// OTPSender delivers one-time codes. The notification module implements it.
type OTPSender interface {
	SendOTP(ctx context.Context, msg event.OTPCodeMessage) error
}

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	DBConn     *pgxpool.Pool              `validate:"required"`
	OTPSender  OTPSender                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	digits := dep.Config.GetInt("otp.digits")
	if digits == 0 {
		digits = 6
	}
	codes, err := passcode.NewNumeric(digits)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		Notifier:   notify.New(dep.OTPSender, dep.Instrument),
		Validator:  dep.Validator,
		Config:     dep.Config,
		Bcrypt:     dep.Bcrypt,
		HMAC:       dep.HMAC,
		Passcode:   codes,
		UID:        dep.UID,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	if dep.Config.GetBool("otp.sweeper.enabled") {
		interval := dep.Config.GetSecond("otp.sweeper.interval_seconds")
		if interval <= 0 {
			interval = time.Minute
		}
		dep.Goroutine.Go(dep.Ctx, func(ctx context.Context) error {
			return uc.RunSweeper(ctx, interval)
		})
		slog.Info("otp sweeper scheduled", "interval", interval.String())
	}

	return nil
}
