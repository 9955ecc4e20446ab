package document

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lankagov/gnportal/internal/document/inbound"
	"github.com/lankagov/gnportal/internal/document/outbound/db"
	docstorage "github.com/lankagov/gnportal/internal/document/outbound/storage"
	"github.com/lankagov/gnportal/internal/document/usecase"
	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/router"
	"github.com/lankagov/gnportal/internal/pkg/storage"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Storage    storage.Storage            `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Router     *router.Router             `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	ObjectKey  uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		Store:      docstorage.New(dep.Storage, dep.Instrument),
		Validator:  dep.Validator,
		Config:     dep.Config,
		UID:        dep.UID,
		ObjectKey:  dep.ObjectKey,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
