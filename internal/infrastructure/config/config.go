package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// MinSecretLength mirrors the token service's lower bound on HS256 keys.
const MinSecretLength = 32

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth    AuthConfig
	Storage StorageConfig
	HTTP    HTTPConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=1h"`
}

type StorageConfig struct {
	Driver          string `env:"STORAGE_DRIVER,    default=mongo"`
	SeedDemoCatalog bool   `env:"SEED_DEMO_CATALOG, default=true"`
}

type HTTPConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=*"`
	BodyLimit    string   `env:"BODY_LIMIT,         default=1M"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=producthub"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

// RedisConfig configures the optional product cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,  default=0"`
	CacheTTL time.Duration `env:"CACHE_TTL, default=5m"`
}

// CacheEnabled reports whether a Redis address was configured.
func (r RedisConfig) CacheEnabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

// Load reads configuration from the process environment and validates it.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the constraints envconfig tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("config: JWT_SECRET must be at least %d bytes", MinSecretLength))
	}
	switch c.Storage.Driver {
	case DriverMongo, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	if c.Storage.Driver == DriverMongo && c.Mongo.URI == "" {
		errs = append(errs, errors.New("config: MONGO_URI is required for the mongo driver"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("config: TOKEN_TTL must be positive"))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
