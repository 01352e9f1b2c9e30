package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/skillnotes/skillnotes-backend/pkg/enums"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Catalog CatalogConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	driver, err := enums.ParseStorageDriver(c.Storage.Driver)
	if err != nil {
		return err
	}
	switch {
	case driver == enums.StorageDriverPostgres && c.DB.DSN == "":
		return fmt.Errorf("%s is required for the postgres storage driver", EnvDBDSN)
	case driver == enums.StorageDriverRedis && c.Redis.URL == "" && c.Redis.Address == "":
		return fmt.Errorf("either %s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
	}
	if strings.TrimSpace(c.Storage.CartKey) == strings.TrimSpace(c.Storage.PurchasesKey) {
		return fmt.Errorf("%s and %s must differ", EnvCartKey, EnvPurchasesKey)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"SKILLNOTES_APP_ENV" required:"true"`
	Port         string `envconfig:"SKILLNOTES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SKILLNOTES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SKILLNOTES_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"SKILLNOTES_AUTO_MIGRATE" default:"true"`
	RequireAuth  bool   `envconfig:"SKILLNOTES_REQUIRE_AUTH" default:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig names the backend and the two independent keys it holds.
type StorageConfig struct {
	Driver       string `envconfig:"SKILLNOTES_STORAGE_DRIVER" default:"sqlite"`
	CartKey      string `envconfig:"SKILLNOTES_STORAGE_CART_KEY" default:"skillnotes-cart"`
	PurchasesKey string `envconfig:"SKILLNOTES_STORAGE_PURCHASES_KEY" default:"skillnotes-purchases"`
}

// DriverKind returns the parsed driver; Load has already validated it.
func (s StorageConfig) DriverKind() enums.StorageDriver {
	driver, err := enums.ParseStorageDriver(s.Driver)
	if err != nil {
		return enums.StorageDriverMemory
	}
	return driver
}

type DBConfig struct {
	DSN        string `envconfig:"SKILLNOTES_DB_DSN"`
	SQLitePath string `envconfig:"SKILLNOTES_DB_SQLITE_PATH" default:"skillnotes.db"`

	MaxOpenConns    int           `envconfig:"SKILLNOTES_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SKILLNOTES_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SKILLNOTES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SKILLNOTES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SKILLNOTES_REDIS_URL"`
	Address      string        `envconfig:"SKILLNOTES_REDIS_ADDR"`
	Password     string        `envconfig:"SKILLNOTES_REDIS_PASSWORD"`
	DB           int           `envconfig:"SKILLNOTES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SKILLNOTES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SKILLNOTES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SKILLNOTES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SKILLNOTES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SKILLNOTES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"SKILLNOTES_JWT_SECRET"`
	Issuer string `envconfig:"SKILLNOTES_JWT_ISSUER" default:"skillnotes"`
}

// Enabled reports whether bearer tokens can be verified at all.
func (j JWTConfig) Enabled() bool {
	return strings.TrimSpace(j.Secret) != ""
}

type CatalogConfig struct {
	File string `envconfig:"SKILLNOTES_CATALOG_FILE"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"SKILLNOTES_METRICS_ENABLED" default:"true"`
}
