package app

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	appointmentinbound "github.com/lankagov/gnportal/internal/appointment/inbound"
	citizeninbound "github.com/lankagov/gnportal/internal/citizen/inbound"
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
	"github.com/lankagov/gnportal/internal/pkg/migration"
	"github.com/lankagov/gnportal/internal/pkg/ratelimit"
	"github.com/lankagov/gnportal/internal/pkg/router"
	"github.com/lankagov/gnportal/internal/pkg/storage"
	"github.com/lankagov/gnportal/internal/pkg/totp"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	staffinbound "github.com/lankagov/gnportal/internal/staff/inbound"
	"github.com/lankagov/gnportal/migrations"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	get := a.setting("instrument.")
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      get("service_name"),
		ServiceVersion:   get("service_version"),
		Environment:      get("env"),
		OTLPEndpoint:     get("otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to set up telemetry", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.ulid = uid.NewULID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))
	a.argon2id = hash.NewArgon2id(a.config.GetString("hash.argon2id.pepper"))
	a.bcrypt = hash.NewBcrypt(a.config.GetInt("hash.bcrypt.cost"), a.config.GetString("hash.bcrypt.pepper"))

	v, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = v

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	a.totp = totp.New(
		a.config.GetString("mfa.totp.issuer"),
		a.config.GetUint("mfa.totp.period"),
		a.config.GetUint("mfa.totp.skew"),
	)

	rawKey, err := base64.StdEncoding.DecodeString(a.config.GetString("mfa.secret"))
	if err != nil {
		slog.Error("failed to decode mfa secret", "error", err)
		os.Exit(1)
	}
	if len(rawKey) != 32 {
		slog.Error("failed to init mfa encryptor, secret must be 32 bytes (AES-256)", "length", len(rawKey))
		os.Exit(1)
	}
	a.mfaEncryptor = mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: rawKey})
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:       []byte(a.config.GetString("jwt.secret")),
		Issuer:       a.config.GetString("jwt.issuer"),
		Audiences:    a.config.GetArray("jwt.audiences"),
		TTL:          a.config.GetMinute("jwt.ttl_minutes"),
		ChallengeTTL: a.config.GetMinute("jwt.challenge_ttl_minutes"),
		Clock:        a.clock,
		UUID:         a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

func (a *App) initDatabase() {
	dsn := a.config.GetString("database.url")

	if a.config.GetBool("database.migrate") {
		if err := migration.Up(dsn, migrations.FS); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		slog.Error("failed to parse database url", "error", err)
		os.Exit(1)
	}

	cfg.MaxConns = a.config.GetInt32("database.pool.max_conns")
	cfg.MinConns = a.config.GetInt32("database.pool.min_conns")
	cfg.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	cfg.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	cfg.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, cfg)
	if err != nil {
		slog.Error("failed to open database pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		slog.Error("database is unreachable", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("redis is unreachable", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(rdb)

	window := a.config.GetSecond("ratelimit.window_seconds")
	if window <= 0 {
		window = time.Minute
	}
	limit := a.config.GetInt("ratelimit.max_requests")
	if limit <= 0 {
		limit = 20
	}
	a.limiter = ratelimit.NewFixedWindow(rdb, "ratelimit", limit, window)
}

func (a *App) initMail() {
	get := a.setting("mail.")
	m, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     get("host"),
		Port:     a.config.GetInt("mail.port"),
		Username: get("username"),
		Password: a.config.GetString("mail.password"),
		From:     get("from"),
	})
	if err != nil {
		slog.Error("failed to init smtp mailer", "error", err)
		os.Exit(1)
	}

	a.mail = m
}

// setting reads a trimmed string under prefix.
func (a *App) setting(prefix string) func(key string) string {
	return func(key string) string {
		return strings.TrimSpace(a.config.GetString(prefix + key))
	}
}

// gcsClientOptions builds the google client options of the gcs driver.
func (a *App) gcsClientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if a.config.GetBool("storage.gcs.without_auth") {
		opts = append(opts, option.WithoutAuthentication())
	}
	if raw := a.config.GetBinary("storage.gcs.credentials_json"); len(raw) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, raw, gcs.ScopeFullControl)
		if err != nil {
			slog.Error("failed to read gcs credentials", "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if ep := a.setting("storage.gcs.")("endpoint"); ep != "" {
		opts = append(opts, option.WithEndpoint(ep))
	}
	return opts
}

func (a *App) initStorage() {
	driver := a.setting("storage.")("driver")
	s3, mio, gc := a.setting("storage.s3."), a.setting("storage.minio."), a.setting("storage.gcs.")

	fo := storage.FactoryOptions{
		Bucket: a.setting("storage.")("bucket"),
		S3: storage.S3Options{
			Region:       s3("region"),
			Endpoint:     s3("endpoint"),
			AccessKey:    s3("access_key"),
			SecretKey:    s3("secret_key"),
			SessionToken: s3("session_token"),
			UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
		},
		MinIO: storage.MinIOOptions{
			Region:       mio("region"),
			Endpoint:     mio("endpoint"),
			AccessKey:    mio("access_key"),
			SecretKey:    mio("secret_key"),
			SessionToken: mio("session_token"),
			UseSSL:       a.config.GetBool("storage.minio.use_ssl"),
		},
	}
	if driver == storage.DriverGCS {
		fo.GCS = storage.GCSOptions{
			ClientOptions:  a.gcsClientOptions(),
			GoogleAccessID: gc("signer_access_id"),
			PrivateKey:     a.config.GetBinary("storage.gcs.signer_private_key"),
		}
	}

	stg, err := storage.NewFromDriver(a.ctx, driver, fo)
	if err != nil {
		slog.Error("failed to init document storage", "driver", driver, "error", err)
		os.Exit(1)
	}

	a.storage = stg
}

func (a *App) initMessaging() {
	driver := a.setting("messaging.")("driver")
	nc := a.setting("messaging.nats.")

	var psOpts []option.ClientOption
	if raw := a.config.GetBinary("messaging.pubsub.credentials_json"); len(raw) > 0 {
		psOpts = append(psOpts, option.WithCredentialsJSON(raw))
	}
	if ep := a.setting("messaging.pubsub.")("endpoint"); ep != "" {
		// emulator
		psOpts = append(psOpts, option.WithEndpoint(ep), option.WithoutAuthentication())
	}

	broker, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr: a.setting("messaging.nsq.")("producer_addr"),
			NSQDAddrs:    a.config.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			LookupdAddrs: a.config.GetArray("messaging.nsq.consumer_lookupd_addrs"),
		},
		Kafka: messaging.KafkaConfig{Brokers: a.config.GetArray("messaging.kafka.brokers")},
		NATS: messaging.NATSConfig{
			URL: nc("url"),
			Options: []nats.Option{
				nats.Name(nc("name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.setting("messaging.pubsub.")("project_id"),
			ClientOptions: psOpts,
		},
	})
	if err != nil {
		slog.Error("failed to init appointment event broker", "driver", driver, "error", err)
		os.Exit(1)
	}

	a.messaging = broker
}

func (a *App) initAuthz() {
	en, err := authz.New(authz.NewPgxAdapter(a.ctx, a.dbConn))
	if err != nil {
		slog.Error("failed to init authz", "error", err)
		os.Exit(1)
	}

	a.authz = en
}

func (a *App) initHTTPServer() {
	public := map[string][]string{
		http.MethodGet:  appointmentinbound.PublicEndpoints,
		http.MethodPost: append(append([]string{}, citizeninbound.PublicEndpoints...), staffinbound.PublicEndpoints...),
	}

	a.router = router.NewRouter(router.Config{
		Config:          a.config,
		UUID:            a.uuid,
		JWT:             a.jwt,
		Instrument:      a.ins,
		Authorizer:      a.authz,
		Limiter:         a.limiter,
		PublicEndpoints: public,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Storage",
			fn: func(context.Context) error {
				return a.storage.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
