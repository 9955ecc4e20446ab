package appointment

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lankagov/gnportal/internal/appointment/inbound"
	"github.com/lankagov/gnportal/internal/appointment/outbound/cache"
	"github.com/lankagov/gnportal/internal/appointment/outbound/db"
	"github.com/lankagov/gnportal/internal/appointment/outbound/mq"
	"github.com/lankagov/gnportal/internal/appointment/usecase"
	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goroutine"
	"github.com/lankagov/gnportal/internal/pkg/idempotency"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/messaging"
	"github.com/lankagov/gnportal/internal/pkg/router"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"github.com/redis/go-redis/v9"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Redis       redis.UniversalClient      `validate:"required"`
	Messaging   messaging.Publisher        `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:      db.NewDB(dep.DBConn, dep.Instrument),
		RepoCache:   cache.NewRedis(dep.Redis, dep.Instrument),
		Publisher:   mq.NewMessaging(dep.Messaging, dep.Instrument, dep.Clock),
		Idempotency: dep.Idempotency,
		Goroutine:   dep.Goroutine,
		Validator:   dep.Validator,
		Config:      dep.Config,
		UID:         dep.UID,
		Clock:       dep.Clock,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
