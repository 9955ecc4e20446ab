package staff

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/hash"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/pkg/mfa"
	"github.com/lankagov/gnportal/internal/pkg/router"
	"github.com/lankagov/gnportal/internal/pkg/totp"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"github.com/lankagov/gnportal/internal/staff/inbound"
	"github.com/lankagov/gnportal/internal/staff/outbound/db"
	"github.com/lankagov/gnportal/internal/staff/usecase"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	DBConn     *pgxpool.Pool              `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Router     *router.Router             `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Argon2     hash.Hash                  `validate:"required"`
	TOTP       totp.TOTP                  `validate:"required"`
	MFA        mfa.Encryptor              `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		Validator:  dep.Validator,
		Argon2:     dep.Argon2,
		TOTP:       dep.TOTP,
		MFA:        dep.MFA,
		JWT:        dep.JWT,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	if email := dep.Config.GetString("staff.bootstrap_admin.email"); email != "" {
		err := uc.BootstrapAdmin(dep.Ctx,
			email,
			dep.Config.GetString("staff.bootstrap_admin.full_name"),
			dep.Config.GetString("staff.bootstrap_admin.password"),
		)
		if err != nil {
			slog.Error("failed to bootstrap admin", "error", err)
			return err
		}
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
