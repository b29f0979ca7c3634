package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Token store backends.
const (
	TokenStoreFile  = "file"
	TokenStoreRedis = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API   APIConfig
	Token TokenConfig
	Redis RedisConfig
	Mongo MongoConfig
	Audit AuditConfig
}

// APIConfig points at the remote booking service.
type APIConfig struct {
	BaseURL   string        `env:"API_BASE_URL,   default=http://localhost:8080/api"`
	Timeout   time.Duration `env:"API_TIMEOUT,    default=10s"`
	RateLimit float64       `env:"API_RATE_LIMIT, default=20"`
	RateBurst int           `env:"API_RATE_BURST, default=10"`
}

type TokenConfig struct {
	Store string `env:"TOKEN_STORE, default=file"`
	File  string `env:"TOKEN_FILE,  default=.booking-console/token"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	TokenKey string        `env:"REDIS_TOKEN_KEY, default=booking-console:session-token"`
	TokenTTL time.Duration `env:"REDIS_TOKEN_TTL, default=24h"`
}

// MongoConfig is optional; an empty URI disables the transition audit trail.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=booking_console"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsDevelopment reports whether the console runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// AuditEnabled reports whether a Mongo audit trail is configured.
func (c *Config) AuditEnabled() bool {
	return strings.TrimSpace(c.Mongo.URI) != ""
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.API.BaseURL))
	}
	switch c.Token.Store {
	case TokenStoreFile:
		if strings.TrimSpace(c.Token.File) == "" {
			errs = append(errs, errors.New("TOKEN_FILE is required when TOKEN_STORE=file"))
		}
	case TokenStoreRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when TOKEN_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("TOKEN_STORE must be %q or %q, got %q", TokenStoreFile, TokenStoreRedis, c.Token.Store))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, errors.New("API_RATE_LIMIT cannot be negative"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
