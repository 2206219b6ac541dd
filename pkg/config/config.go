package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "shoplytics"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Gate      GateConfig
	Import    ImportConfig
	Seed      SeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPLYTICS_APP_ENV" default:"dev"`
	Port         string `envconfig:"SHOPLYTICS_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"SHOPLYTICS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPLYTICS_LOG_WARN_STACK" default:"false"`
	// CORSOrigins is a comma-separated allow list; "*" opens the API to any
	// origin, which is the demo default.
	CORSOrigins []string `envconfig:"SHOPLYTICS_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	// Driver selects the dialect. The default is the embedded single-file
	// engine; postgres is kept for deployments that outgrow the file.
	Driver string `envconfig:"SHOPLYTICS_DB_DRIVER" default:"sqlite"`
	// Path is the sqlite database file. Ignored for postgres.
	Path string `envconfig:"SHOPLYTICS_DB_PATH" default:"ecommerce.db"`
	// DSN is required when Driver is postgres.
	DSN string `envconfig:"SHOPLYTICS_DB_DSN"`

	MaxOpenConns    int           `envconfig:"SHOPLYTICS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SHOPLYTICS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPLYTICS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPLYTICS_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"SHOPLYTICS_DB_AUTO_MIGRATE" default:"true"`
}

func (db *DBConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DriverSQLite:
		if db.Path == "" {
			return fmt.Errorf("%s requires SHOPLYTICS_DB_PATH", DriverSQLite)
		}
	case DriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("%s requires SHOPLYTICS_DB_DSN", DriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	return nil
}

// IsSQLite reports whether the embedded engine is in use.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	// URL is optional; when empty the rate limiter runs on the in-memory
	// fixed-window store instead of Redis.
	URL          string        `envconfig:"SHOPLYTICS_REDIS_URL"`
	PoolSize     int           `envconfig:"SHOPLYTICS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPLYTICS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPLYTICS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPLYTICS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPLYTICS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type RateLimitConfig struct {
	Window  time.Duration `envconfig:"SHOPLYTICS_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit int           `envconfig:"SHOPLYTICS_RATE_LIMIT_IP_LIMIT" default:"120"`
}

type GateConfig struct {
	MaxQueryLength int `envconfig:"SHOPLYTICS_GATE_MAX_QUERY_LENGTH" default:"2000"`
	RowLimit       int `envconfig:"SHOPLYTICS_GATE_ROW_LIMIT" default:"500"`
}

type ImportConfig struct {
	RowCap int `envconfig:"SHOPLYTICS_IMPORT_ROW_CAP" default:"5000"`
}

type SeedConfig struct {
	// OnEmpty seeds the demo dataset when the users table has no rows.
	OnEmpty bool `envconfig:"SHOPLYTICS_SEED_ON_EMPTY" default:"false"`
	Users   int  `envconfig:"SHOPLYTICS_SEED_USERS" default:"120"`
	Orders  int  `envconfig:"SHOPLYTICS_SEED_ORDERS" default:"400"`
	// OrderWindowDays bounds how far back generated orders are dated.
	OrderWindowDays int `envconfig:"SHOPLYTICS_SEED_ORDER_WINDOW_DAYS" default:"90"`
}
