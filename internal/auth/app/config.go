package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MinSecretBytes is the shortest JWT_SECRET_KEY accepted.
const MinSecretBytes = 32

type Config struct {
	Issuer     string `env:"AUTH_ISSUER"      envDefault:"smart-office-auth"`
	TOTPIssuer string `env:"AUTH_TOTP_ISSUER" envDefault:"Smart Office AI"`

	JWTSecret                string `env:"JWT_SECRET_KEY"`
	JWTAlgorithm             string `env:"JWT_ALGORITHM"               envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`

	TOTPWindow       int  `env:"AUTH_TOTP_WINDOW"            envDefault:"1"`
	ReplayProtection bool `env:"AUTH_TOTP_REPLAY_PROTECTION" envDefault:"true"`

	DatabaseFile string `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"`
	RedisURL     string `env:"REDIS_URL"`

	// Dev only: create dev@example.com on startup.
	SeedDevUser     bool   `env:"AUTH_SEED_DEV_USER"`
	DevUserPassword string `env:"AUTH_DEV_USER_PASSWORD"`

	Env                 string        `env:"ENV"                   envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT"            envDefault:"json"`
	Port                int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	OTelEnabled  bool   `env:"OTEL_ENABLED"`
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env entries.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return ParseConfig()
}

// ParseConfig reads Config from the process environment only.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the service runs in the development environment.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, "dev")
}

func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// Validate reports every invalid setting. An empty JWT secret is only
// allowed in dev, where an ephemeral one is generated at startup.
func (c Config) Validate() error {
	var errs []error

	switch {
	case c.JWTSecret == "" && !c.IsDev():
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	case c.JWTSecret != "" && len(c.JWTSecret) < MinSecretBytes:
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes", MinSecretBytes))
	}

	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWTAlgorithm))
	}

	if c.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.TOTPWindow < 1 || c.TOTPWindow > 10 {
		errs = append(errs, errors.New("AUTH_TOTP_WINDOW must be between 1 and 10"))
	}
	if c.DatabaseFile == "" {
		errs = append(errs, errors.New("AUTH_DATABASE_FILE is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	if c.SeedDevUser && !c.IsDev() {
		errs = append(errs, errors.New("AUTH_SEED_DEV_USER is only allowed when ENV=dev"))
	}
	if c.OTelEnabled && c.OTelEndpoint == "" {
		errs = append(errs, errors.New("OTEL_ENDPOINT is required when OTEL_ENABLED is set"))
	}

	return errors.Join(errs...)
}
