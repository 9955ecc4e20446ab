package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lankagov/gnportal/internal/pkg/authz"
	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goroutine"
	"github.com/lankagov/gnportal/internal/pkg/hash"
	"github.com/lankagov/gnportal/internal/pkg/idempotency"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/pkg/mail"
	"github.com/lankagov/gnportal/internal/pkg/messaging"
	"github.com/lankagov/gnportal/internal/pkg/mfa"
	"github.com/lankagov/gnportal/internal/pkg/ratelimit"
	"github.com/lankagov/gnportal/internal/pkg/router"
	"github.com/lankagov/gnportal/internal/pkg/storage"
	"github.com/lankagov/gnportal/internal/pkg/totp"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine    *goroutine.Manager
	validator    validator.Validator
	clock        clock.Clocker
	hmac         hash.Hash
	argon2id     hash.Hash
	bcrypt       hash.Hash
	uid          uid.NumberID
	ulid         uid.StringID
	uuid         uid.StringID
	totp         totp.TOTP
	jwt          jwt.JWT
	mfaEncryptor mfa.Encryptor

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	limiter   ratelimit.Limiter
	mail      mail.Mail
	messaging messaging.Messaging
	storage   storage.Storage
	authz     *authz.Enforcer

	// server
	router     *router.Router
	httpServer *http.Server

	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initAuthz()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
