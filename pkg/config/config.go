package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Pricing      PricingConfig
	Catalog      CatalogConfig
	Stripe       StripeConfig
	Email        EmailConfig
	External     ExternalConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MINSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"MINSTORE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MINSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MINSTORE_LOG_WARN_STACK" default:"false"`

	// AdminEmails lists accounts allowed to hit admin endpoints. The auth
	// provider issues the same tokens for everyone, so the backend gates
	// admin operations on the verified email claim.
	AdminEmails []string `envconfig:"MINSTORE_ADMIN_EMAILS"`
}

// IsAdminEmail reports whether the email belongs to a configured admin.
func (a AppConfig) IsAdminEmail(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return false
	}
	for _, admin := range a.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MINSTORE_DB_DSN"`
	Driver string `envconfig:"MINSTORE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"MINSTORE_DB_HOST"`
	Port     int    `envconfig:"MINSTORE_DB_PORT" default:"5432"`
	User     string `envconfig:"MINSTORE_DB_USER"`
	Password string `envconfig:"MINSTORE_DB_PASSWORD"`
	Name     string `envconfig:"MINSTORE_DB_NAME"`
	SSLMode  string `envconfig:"MINSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MINSTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MINSTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MINSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MINSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MINSTORE_REDIS_URL"`
	Address      string        `envconfig:"MINSTORE_REDIS_ADDR"`
	Password     string        `envconfig:"MINSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MINSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MINSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MINSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MINSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MINSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MINSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig verifies tokens minted by the hosted auth provider. The backend
// never issues tokens itself.
type JWTConfig struct {
	Secret   string `envconfig:"MINSTORE_JWT_SECRET" required:"true"`
	Issuer   string `envconfig:"MINSTORE_JWT_ISSUER"`
	Audience string `envconfig:"MINSTORE_JWT_AUDIENCE"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MINSTORE_AUTO_MIGRATE" default:"false"`
}

// PricingConfig carries the storefront pricing knobs. The free-shipping
// threshold and tax rate are policy, not business law, so they stay
// configurable with the documented defaults.
type PricingConfig struct {
	FreeShippingThreshold decimal.Decimal `envconfig:"MINSTORE_FREE_SHIPPING_THRESHOLD" default:"100"`
	TaxRate               decimal.Decimal `envconfig:"MINSTORE_TAX_RATE" default:"0.08"`
	DefaultShippingRate   decimal.Decimal `envconfig:"MINSTORE_DEFAULT_SHIPPING_RATE" default:"10"`
	Currency              string          `envconfig:"MINSTORE_CURRENCY" default:"USD"`
}

func (p PricingConfig) validate() error {
	if p.TaxRate.IsNegative() {
		return fmt.Errorf("tax rate must not be negative")
	}
	if p.DefaultShippingRate.IsNegative() {
		return fmt.Errorf("default shipping rate must not be negative")
	}
	return nil
}

type CatalogConfig struct {
	// CategoryMatch selects how listing filters match categories: "exact"
	// compares slugs, "fuzzy" does case-insensitive substring matching
	// against both slug and name.
	CategoryMatch string `envconfig:"MINSTORE_CATEGORY_MATCH" default:"fuzzy"`
}

type StripeConfig struct {
	APIKey        string `envconfig:"MINSTORE_STRIPE_API_KEY"`
	WebhookSecret string `envconfig:"MINSTORE_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"MINSTORE_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type EmailConfig struct {
	APIKey      string `envconfig:"MINSTORE_EMAIL_API_KEY"`
	FromAddress string `envconfig:"MINSTORE_EMAIL_FROM" default:"noreply@minimalstore.example"`
	StoreName   string `envconfig:"MINSTORE_EMAIL_STORE_NAME" default:"Minimal Store"`
}

// ExternalConfig bounds every outbound call so a hung dependency cannot
// block a request indefinitely.
type ExternalConfig struct {
	StripeTimeout time.Duration `envconfig:"MINSTORE_STRIPE_TIMEOUT" default:"10s"`
	EmailTimeout  time.Duration `envconfig:"MINSTORE_EMAIL_TIMEOUT" default:"10s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MINSTORE_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
