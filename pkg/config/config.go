package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	Store         StoreConfig
	Stripe        StripeConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"JEWELBOX_APP_ENV" required:"true"`
	Port         string `envconfig:"JEWELBOX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"JEWELBOX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JEWELBOX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"JEWELBOX_DB_DSN"`
	Driver string `envconfig:"JEWELBOX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"JEWELBOX_DB_HOST"`
	LegacyPort     int    `envconfig:"JEWELBOX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JEWELBOX_DB_USER"`
	LegacyPassword string `envconfig:"JEWELBOX_DB_PASSWORD"`
	LegacyName     string `envconfig:"JEWELBOX_DB_NAME"`
	LegacySSLMode  string `envconfig:"JEWELBOX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"JEWELBOX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JEWELBOX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JEWELBOX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JEWELBOX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"JEWELBOX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"JEWELBOX_REDIS_ADDR"`
	Password     string        `envconfig:"JEWELBOX_REDIS_PASSWORD"`
	DB           int           `envconfig:"JEWELBOX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JEWELBOX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JEWELBOX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JEWELBOX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JEWELBOX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JEWELBOX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"JEWELBOX_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"JEWELBOX_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"JEWELBOX_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"JEWELBOX_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"JEWELBOX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"JEWELBOX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"JEWELBOX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"JEWELBOX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"JEWELBOX_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"JEWELBOX_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"JEWELBOX_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"JEWELBOX_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"JEWELBOX_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"JEWELBOX_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"JEWELBOX_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CheckoutConfig struct {
	SessionTTL    time.Duration `envconfig:"JEWELBOX_CHECKOUT_SESSION_TTL" default:"2h"`
	SubmitTimeout time.Duration `envconfig:"JEWELBOX_CHECKOUT_SUBMIT_TIMEOUT" default:"30s"`
}

// SubmitLockTTL pads the submit timeout so an abandoned lock always expires.
func (c CheckoutConfig) SubmitLockTTL() time.Duration {
	return c.SubmitTimeout + 5*time.Second
}

type StoreConfig struct {
	Currency      string  `envconfig:"JEWELBOX_STORE_CURRENCY" default:"USD"`
	TaxRate       float64 `envconfig:"JEWELBOX_STORE_TAX_RATE" default:"0.08"`
	ItemsPerPage  int     `envconfig:"JEWELBOX_STORE_ITEMS_PER_PAGE" default:"12"`
	SupportEmail  string  `envconfig:"JEWELBOX_STORE_SUPPORT_EMAIL" default:"support@elegantjewelryboxes.com"`
}

type StripeConfig struct {
	APIKey string `envconfig:"JEWELBOX_STRIPE_API_KEY"`
	Env    string `envconfig:"JEWELBOX_STRIPE_ENV" default:"test"`
}

// Environment returns the configured stripe environment.
func (s StripeConfig) Environment() string {
	return strings.ToLower(strings.TrimSpace(s.Env))
}

type GCPConfig struct {
	ProjectID string `envconfig:"JEWELBOX_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"JEWELBOX_PUBSUB_ORDERS_TOPIC" default:"jewelbox-orders"`
}

type OutboxConfig struct {
	PollInterval time.Duration `envconfig:"JEWELBOX_OUTBOX_POLL_INTERVAL" default:"5s"`
	BatchSize    int           `envconfig:"JEWELBOX_OUTBOX_BATCH_SIZE" default:"50"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"JEWELBOX_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"JEWELBOX_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
