package ranger

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/postgres"
)

const (
	// Base URL defaults
	BaseURLEnvVar = "BASE_URL"

	// App metadata
	AppTitleEnvVar   = "APP_TITLE"
	defaultAppTitle  = "Wayfarer"
	ContactUsEnvVar  = "CONTACT_US_EMAIL"
	defaultContactUs = "hello@wayfarer.example"

	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	defaultLogLvl   = slog.LevelInfo
	logJSONEnvVar   = "LOG_JSON"
	defaultLogJSON  = false
	logFileEnvVar   = "LOG_FILE"
	sentryDsnEnvVar = "SENTRY_DSN"

	// Database defaults
	dbHostEnvVar     = "DATABASE_HOST"
	defaultDBHost    = "localhost"
	dbNameEnvVar     = "DATABASE_NAME"
	dbPassEnvVar     = "DATABASE_PASSWORD"
	dbPortEnvVar     = "DATABASE_PORT"
	defaultDBPort    = "5432"
	dbSSLModeEnvVar  = "DATABASE_SSLMODE"
	defaultDBSSLMode = "prefer"
	dbURLEnvVar      = "DATABASE_URL"
	dbUserEnvVar     = "DATABASE_USER"

	// Redis defaults
	redisURLEnvVar = "REDIS_URL"

	// Sign in defaults
	jwtKeyEnvVar       = "JWT_KEY"
	googleClientEnvVar = "GOOGLE_CLIENT_ID"
	googleSecretEnvVar = "GOOGLE_CLIENT_SECRET"

	// Web server defaults
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second

	// Session defaults
	SessionAuthKeyEnvVar    = "SESSION_AUTH_KEY"
	SessionEncryptKeyEnvVar = "SESSION_ENCRYPTION_KEY"

	// Test defaults
	dbTestHostEnvVar     = "DATABASE_TEST_HOST"
	defaultDBTestHost    = "localhost"
	dbTestNameEnvVar     = "DATABASE_TEST_NAME"
	dbTestPassEnvVar     = "DATABASE_TEST_PASSWORD"
	dbTestPortEnvVar     = "DATABASE_TEST_PORT"
	defaultDBTestPort    = "5432"
	dbTestURLEnvVar      = "DATABASE_TEST_URL"
	dbTestUserEnvVar     = "DATABASE_TEST_USER"
	dbTestSSLModeEnvVar  = "DATABASE_TEST_SSLMODE"
	defaultDBTestSSLMode = "prefer"
)

// A Config holds every value read from the environment a Ranger is built from.
type Config struct {
	AppTitle  string
	BaseURL   *url.URL
	ContactUs string
	DB        *postgres.CxnConfig
	Env       wayfarer.Environment

	// Logging
	LogFile   string
	LogJSON   bool
	LogLevel  slog.Level
	SentryDSN string

	// Backs sessions and the idempotency cache when set.
	Redis *redis.Options

	// Sign in
	GoogleClient string
	GoogleSecret string
	JWTKey       string

	// Web server
	Addr         string
	IdleTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Hex-encoded keys
	SessionAuthKey    string
	SessionEncryptKey string
}

// NewConfig reads a Config from environment variables.
// Confer the package documentation for what each does.
//
// Unset variables fall back to defaults where one makes sense.
// If BASE_URL or REDIS_URL cannot be parsed, ErrBadConfig returns.
func NewConfig() (Config, error) {
	env := wayfarer.EnvVarOrEnv(environmentEnvVar, wayfarer.Development)

	host := wayfarer.EnvVarOrString(hostEnvVar, DefaultHost)
	port := wayfarer.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	cfg := Config{
		AppTitle:  wayfarer.EnvVarOrString(AppTitleEnvVar, defaultAppTitle),
		BaseURL:   wayfarer.EnvVarOrURL(BaseURLEnvVar, "http://"+host+port),
		ContactUs: wayfarer.EnvVarOrString(ContactUsEnvVar, defaultContactUs),
		DB:        NewPostgresConfig(env),
		Env:       env,

		LogFile:   os.Getenv(logFileEnvVar),
		LogJSON:   !env.IsDevelopment() || wayfarer.EnvVarOrBool(logJSONEnvVar, defaultLogJSON),
		LogLevel:  wayfarer.EnvVarOrLogLevel(logLevelEnvVar, defaultLogLvl),
		SentryDSN: os.Getenv(sentryDsnEnvVar),

		GoogleClient: os.Getenv(googleClientEnvVar),
		GoogleSecret: os.Getenv(googleSecretEnvVar),
		JWTKey:       os.Getenv(jwtKeyEnvVar),

		Addr:         port,
		IdleTimeout:  wayfarer.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  wayfarer.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: wayfarer.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),

		SessionAuthKey:    os.Getenv(SessionAuthKeyEnvVar),
		SessionEncryptKey: os.Getenv(SessionEncryptKeyEnvVar),
	}

	if cfg.BaseURL == nil {
		return cfg, fmt.Errorf("%w: %s is not a valid URL", ErrBadConfig, BaseURLEnvVar)
	}

	if raw := os.Getenv(redisURLEnvVar); raw != "" {
		opts, err := redis.ParseURL(raw)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s is not valid: %s", ErrBadConfig, redisURLEnvVar, err)
		}

		cfg.Redis = opts
	}

	return cfg, nil
}

// NewPostgresConfig constructs a *postgres.CxnConfig appropriate to the given environment.
// Confer the DATABASE env vars for usage.
func NewPostgresConfig(env wayfarer.Environment) *postgres.CxnConfig {
	if env.IsTesting() {
		if url := os.Getenv(dbTestURLEnvVar); url != "" {
			return &postgres.CxnConfig{IsTestDB: true, URL: url}
		}

		return &postgres.CxnConfig{
			Host:     wayfarer.EnvVarOrString(dbTestHostEnvVar, defaultDBTestHost),
			IsTestDB: true,
			Name:     os.Getenv(dbTestNameEnvVar),
			Password: os.Getenv(dbTestPassEnvVar),
			Port:     wayfarer.EnvVarOrString(dbTestPortEnvVar, defaultDBTestPort),
			SSLMode:  wayfarer.EnvVarOrString(dbTestSSLModeEnvVar, defaultDBTestSSLMode),
			User:     os.Getenv(dbTestUserEnvVar),
		}
	}

	if url := os.Getenv(dbURLEnvVar); url != "" {
		return &postgres.CxnConfig{IsTestDB: false, URL: url}
	}

	return &postgres.CxnConfig{
		Host:     wayfarer.EnvVarOrString(dbHostEnvVar, defaultDBHost),
		IsTestDB: false,
		Name:     os.Getenv(dbNameEnvVar),
		Password: os.Getenv(dbPassEnvVar),
		Port:     wayfarer.EnvVarOrString(dbPortEnvVar, defaultDBPort),
		SSLMode:  wayfarer.EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode),
		User:     os.Getenv(dbUserEnvVar),
	}
}
