package app

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	unsetEnv(t,
		"ENV", "JWT_SECRET_KEY", "JWT_ALGORITHM", "ACCESS_TOKEN_EXPIRE_MINUTES",
		"AUTH_ISSUER", "AUTH_TOTP_ISSUER", "AUTH_TOTP_WINDOW", "AUTH_TOTP_REPLAY_PROTECTION",
		"AUTH_DATABASE_FILE", "REDIS_URL", "AUTH_SEED_DEV_USER", "PORT",
		"SHUTDOWN_GRACE_PERIOD", "OTEL_ENABLED",
	)

	cfg, err := ParseConfig()
	require.NoError(t, err)

	require.Equal(t, "smart-office-auth", cfg.Issuer)
	require.Equal(t, "Smart Office AI", cfg.TOTPIssuer)
	require.Equal(t, "HS256", cfg.JWTAlgorithm)
	require.Equal(t, 30*time.Minute, cfg.AccessTokenTTL())
	require.Equal(t, 1, cfg.TOTPWindow)
	require.True(t, cfg.ReplayProtection)
	require.Equal(t, "auth.db", cfg.DatabaseFile)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.False(t, cfg.SeedDevUser)
	require.False(t, cfg.OTelEnabled)
	require.Empty(t, cfg.RedisURL)
	require.True(t, cfg.IsDev())
	require.NoError(t, cfg.Validate())
}

func TestParseConfig_Overrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("JWT_SECRET_KEY", testSecret)
	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("AUTH_TOTP_WINDOW", "2")
	t.Setenv("AUTH_TOTP_REPLAY_PROTECTION", "false")
	t.Setenv("AUTH_DATABASE_FILE", "/data/auth.db")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("PORT", "9090")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "3s")

	cfg, err := ParseConfig()
	require.NoError(t, err)

	require.False(t, cfg.IsDev())
	require.Equal(t, testSecret, cfg.JWTSecret)
	require.Equal(t, "HS512", cfg.JWTAlgorithm)
	require.Equal(t, 5*time.Minute, cfg.AccessTokenTTL())
	require.Equal(t, 2, cfg.TOTPWindow)
	require.False(t, cfg.ReplayProtection)
	require.Equal(t, "/data/auth.db", cfg.DatabaseFile)
	require.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 3*time.Second, cfg.ShutdownGracePeriod)
	require.NoError(t, cfg.Validate())
}

func TestParseConfig_RejectsMalformedValues(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := ParseConfig()
	require.Error(t, err)
}

func validConfig() Config {
	return Config{
		Issuer:                   "smart-office-auth",
		TOTPIssuer:               "Smart Office AI",
		JWTSecret:                testSecret,
		JWTAlgorithm:             "HS256",
		AccessTokenExpireMinutes: 30,
		TOTPWindow:               1,
		ReplayProtection:         true,
		DatabaseFile:             "auth.db",
		Env:                      "prod",
		Port:                     8080,
		ShutdownGracePeriod:      time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:   "dev may omit secret",
			mutate: func(c *Config) { c.Env = "dev"; c.JWTSecret = "" },
		},
		{
			name:    "prod requires secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET_KEY is required",
		},
		{
			name:    "short secret",
			mutate:  func(c *Config) { c.JWTSecret = "too-short" },
			wantErr: "at least 32 bytes",
		},
		{
			name:    "asymmetric algorithm",
			mutate:  func(c *Config) { c.JWTAlgorithm = "RS256" },
			wantErr: "JWT_ALGORITHM",
		},
		{
			name:    "zero ttl",
			mutate:  func(c *Config) { c.AccessTokenExpireMinutes = 0 },
			wantErr: "ACCESS_TOKEN_EXPIRE_MINUTES",
		},
		{
			name:    "window below one",
			mutate:  func(c *Config) { c.TOTPWindow = 0 },
			wantErr: "AUTH_TOTP_WINDOW",
		},
		{
			name:    "window too wide",
			mutate:  func(c *Config) { c.TOTPWindow = 11 },
			wantErr: "AUTH_TOTP_WINDOW",
		},
		{
			name:    "empty database file",
			mutate:  func(c *Config) { c.DatabaseFile = "" },
			wantErr: "AUTH_DATABASE_FILE",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: "PORT",
		},
		{
			name:    "seeding outside dev",
			mutate:  func(c *Config) { c.SeedDevUser = true },
			wantErr: "AUTH_SEED_DEV_USER",
		},
		{
			name:    "tracing without endpoint",
			mutate:  func(c *Config) { c.OTelEnabled = true },
			wantErr: "OTEL_ENDPOINT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""
	cfg.Port = 0

	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "JWT_SECRET_KEY"))
	require.True(t, strings.Contains(err.Error(), "PORT"))
}
