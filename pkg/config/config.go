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
	Checkout      CheckoutConfig
	Latency       LatencyConfig
	IdentifyLimit IdentifyRateLimitConfig
	Assistant     AssistantConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"KHODARJI_APP_ENV" required:"true"`
	Port         string `envconfig:"KHODARJI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KHODARJI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KHODARJI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KHODARJI_DB_DSN"`
	Driver string `envconfig:"KHODARJI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KHODARJI_DB_HOST"`
	LegacyPort     int    `envconfig:"KHODARJI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KHODARJI_DB_USER"`
	LegacyPassword string `envconfig:"KHODARJI_DB_PASSWORD"`
	LegacyName     string `envconfig:"KHODARJI_DB_NAME"`
	LegacySSLMode  string `envconfig:"KHODARJI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KHODARJI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KHODARJI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KHODARJI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KHODARJI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the store runs on the embedded driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"KHODARJI_REDIS_URL"`
	Address      string        `envconfig:"KHODARJI_REDIS_ADDR"`
	Password     string        `envconfig:"KHODARJI_REDIS_PASSWORD"`
	DB           int           `envconfig:"KHODARJI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KHODARJI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KHODARJI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KHODARJI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KHODARJI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KHODARJI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. The durable
// store is the single source of truth, so the Redis surface stays optional.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"KHODARJI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KHODARJI_JWT_ISSUER" default:"khodarji"`
	ExpirationMinutes int    `envconfig:"KHODARJI_JWT_EXPIRATION_MINUTES" default:"43200"`
}

// Expiration returns the session token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type CheckoutConfig struct {
	FreeDeliveryThreshold string `envconfig:"KHODARJI_FREE_DELIVERY_THRESHOLD" default:"20"`
	DeliveryFee           string `envconfig:"KHODARJI_DELIVERY_FEE" default:"2"`
}

type LatencyConfig struct {
	// Scale multiplies the per-operation baseline delays used to exercise
	// client loading states; zero disables the simulation entirely.
	Scale float64 `envconfig:"KHODARJI_SIM_LATENCY_SCALE" default:"0"`
}

type IdentifyRateLimitConfig struct {
	Window     time.Duration `envconfig:"KHODARJI_IDENTIFY_RATE_LIMIT_WINDOW" default:"1m"`
	PhoneLimit int           `envconfig:"KHODARJI_IDENTIFY_RATE_LIMIT_PHONE_LIMIT" default:"5"`
	IPLimit    int           `envconfig:"KHODARJI_IDENTIFY_RATE_LIMIT_IP_LIMIT" default:"20"`
}

type AssistantConfig struct {
	APIKey  string        `envconfig:"KHODARJI_OPENAI_API_KEY"`
	BaseURL string        `envconfig:"KHODARJI_OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model   string        `envconfig:"KHODARJI_OPENAI_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"KHODARJI_OPENAI_TIMEOUT" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KHODARJI_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = DefaultSQLitePath
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
