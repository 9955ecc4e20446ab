package app

import (
	"log/slog"
	"os"

	"github.com/lankagov/gnportal/internal/appointment"
	"github.com/lankagov/gnportal/internal/citizen"
	"github.com/lankagov/gnportal/internal/document"
	"github.com/lankagov/gnportal/internal/notification"
	"github.com/lankagov/gnportal/internal/staff"
)

func (a *App) initModules() {
	sender, err := notification.New(notification.Dependency{
		Ctx:        a.ctx,
		Messaging:  a.messaging,
		Mail:       a.mail,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Goroutine:  a.goroutine,
		UUID:       a.uuid,
	})
	if err != nil {
		slog.Error("failed to init module notification", "error", err)
		os.Exit(1)
	}

	if err := citizen.New(citizen.Dependency{
		Ctx:        a.ctx,
		DBConn:     a.dbConn,
		OTPSender:  sender,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Router:     a.router,
		Goroutine:  a.goroutine,
		UID:        a.uid,
		Clock:      a.clock,
		Bcrypt:     a.bcrypt,
		HMAC:       a.hmac,
		JWT:        a.jwt,
	}); err != nil {
		slog.Error("failed to init module citizen", "error", err)
		os.Exit(1)
	}

	if err := appointment.New(appointment.Dependency{
		DBConn:      a.dbConn,
		Redis:       a.cacheConn,
		Messaging:   a.messaging,
		Idempotency: a.idemp,
		Config:      a.config,
		Instrument:  a.ins,
		Validator:   a.validator,
		Router:      a.router,
		Goroutine:   a.goroutine,
		UID:         a.uid,
		Clock:       a.clock,
	}); err != nil {
		slog.Error("failed to init module appointment", "error", err)
		os.Exit(1)
	}

	if err := document.New(document.Dependency{
		DBConn:     a.dbConn,
		Storage:    a.storage,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Router:     a.router,
		UID:        a.uid,
		ObjectKey:  a.ulid,
		Clock:      a.clock,
	}); err != nil {
		slog.Error("failed to init module document", "error", err)
		os.Exit(1)
	}

	if err := staff.New(staff.Dependency{
		Ctx:        a.ctx,
		DBConn:     a.dbConn,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Router:     a.router,
		UID:        a.uid,
		Clock:      a.clock,
		Argon2:     a.argon2id,
		TOTP:       a.totp,
		MFA:        a.mfaEncryptor,
		JWT:        a.jwt,
	}); err != nil {
		slog.Error("failed to init module staff", "error", err)
		os.Exit(1)
	}
}
