package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace for every storefront variable.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Razorpay      RazorpayConfig
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
	Env          string `envconfig:"SCHOOLKART_APP_ENV" required:"true"`
	Port         string `envconfig:"SCHOOLKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SCHOOLKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SCHOOLKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SCHOOLKART_DB_DSN"`
	Driver string `envconfig:"SCHOOLKART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SCHOOLKART_DB_HOST"`
	Port     int    `envconfig:"SCHOOLKART_DB_PORT" default:"5432"`
	User     string `envconfig:"SCHOOLKART_DB_USER"`
	Password string `envconfig:"SCHOOLKART_DB_PASSWORD"`
	Name     string `envconfig:"SCHOOLKART_DB_NAME"`
	SSLMode  string `envconfig:"SCHOOLKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SCHOOLKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SCHOOLKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SCHOOLKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCHOOLKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Host == "" || db.User == "" || db.Name == "" {
		return fmt.Errorf("either SCHOOLKART_DB_DSN or host/user/name parts are required")
	}
	db.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(db.User),
		url.QueryEscape(db.Password),
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SCHOOLKART_REDIS_URL"`
	Address      string        `envconfig:"SCHOOLKART_REDIS_ADDR"`
	Password     string        `envconfig:"SCHOOLKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCHOOLKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCHOOLKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SCHOOLKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SCHOOLKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SCHOOLKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SCHOOLKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SCHOOLKART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SCHOOLKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SCHOOLKART_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"SCHOOLKART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SCHOOLKART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SCHOOLKART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SCHOOLKART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SCHOOLKART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SCHOOLKART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SCHOOLKART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SCHOOLKART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SCHOOLKART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SCHOOLKART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SCHOOLKART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SCHOOLKART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SCHOOLKART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SCHOOLKART_AUTO_MIGRATE" default:"false"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"SCHOOLKART_RAZORPAY_KEY_ID" required:"true"`
	KeySecret string `envconfig:"SCHOOLKART_RAZORPAY_KEY_SECRET" required:"true"`
	Currency  string `envconfig:"SCHOOLKART_RAZORPAY_CURRENCY" default:"INR"`
}
