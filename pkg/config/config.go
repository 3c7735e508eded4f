package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cart         CartConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"TECHMART_APP_ENV" required:"true"`
	Port         string `envconfig:"TECHMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TECHMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TECHMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TECHMART_DB_DSN"`
	Driver string `envconfig:"TECHMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TECHMART_DB_HOST"`
	LegacyPort     int    `envconfig:"TECHMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TECHMART_DB_USER"`
	LegacyPassword string `envconfig:"TECHMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"TECHMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"TECHMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TECHMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TECHMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TECHMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TECHMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TECHMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TECHMART_REDIS_ADDR"`
	Password     string        `envconfig:"TECHMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"TECHMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TECHMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TECHMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TECHMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TECHMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TECHMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CartConfig struct {
	// SnapshotTTL bounds how long an abandoned cart or build survives in
	// redis. Zero means no expiry.
	SnapshotTTL time.Duration `envconfig:"TECHMART_CART_SNAPSHOT_TTL" default:"720h"`
}

type CheckoutConfig struct {
	// DeductStock controls whether placing an order decrements inventory
	// in the same transaction. Off by default: depletion is deferred to
	// the fulfillment flow.
	DeductStock bool `envconfig:"TECHMART_CHECKOUT_DEDUCT_STOCK" default:"false"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TECHMART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TECHMART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
