package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	httpapi "github.com/smartoffice/authcore/internal/auth/http"
	"github.com/smartoffice/authcore/internal/auth/replay"
	"github.com/smartoffice/authcore/internal/auth/service"
	"github.com/smartoffice/authcore/internal/auth/store"
	"github.com/smartoffice/authcore/internal/auth/store/drivers/sqlite"
	"github.com/smartoffice/authcore/pkg/cryptox"
	"github.com/smartoffice/authcore/pkg/jwtx"
	"github.com/smartoffice/authcore/pkg/otelx"
	"github.com/smartoffice/authcore/pkg/slogx"
	"github.com/smartoffice/authcore/pkg/totpx"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

const serviceName = "smart-office-auth"

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db            store.Store
	redis         *redis.Client // nil unless REDIS_URL is set
	tokens        *jwtx.Codec
	totp          *totpx.Manager
	guard         replay.Guard
	traceShutdown otelx.ShutdownFunc

	// Services
	authService      *service.AuthService
	userService      *service.UserService
	mfaService       *service.MFAService
	bootstrapService *service.BootstrapService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	shutdown, err := otelx.Setup(ctx, otelx.Config{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: serviceName,
		Version:     BuildVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.traceShutdown = shutdown

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initRedis(ctx); err != nil {
		app.closeStores()
		return nil, err
	}
	if err := app.initSecurity(); err != nil {
		app.closeStores()
		return nil, err
	}
	if err := app.initServices(); err != nil {
		app.closeStores()
		return nil, err
	}
	if err := app.seed(ctx); err != nil {
		app.closeStores()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.closeStores()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, then releases the stores and flushes spans.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.traceShutdown(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
	}

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) closeStores() error {
	var errs []error
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// initDatabase opens the user store and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		app.db = nil
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initRedis connects to REDIS_URL when set.
func (app *Application) initRedis(ctx context.Context) error {
	if app.cfg.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	app.redis = client
	app.logger.Info("redis connected", "addr", opts.Addr, "db", opts.DB)
	return nil
}

// initSecurity builds the token codec, the TOTP manager and the replay guard.
func (app *Application) initSecurity() error {
	secret := []byte(app.cfg.JWTSecret)
	if len(secret) == 0 {
		ephemeral, err := cryptox.GenerateToken(cryptox.TokenSize512)
		if err != nil {
			return fmt.Errorf("failed to generate ephemeral jwt secret: %w", err)
		}
		secret = []byte(ephemeral)
		app.logger.Warn("JWT_SECRET_KEY not set, using an ephemeral secret; tokens will not survive a restart")
	}

	codec, err := jwtx.NewCodec(jwtx.Config{
		Secret:    secret,
		Algorithm: app.cfg.JWTAlgorithm,
		TTL:       app.cfg.AccessTokenTTL(),
		Issuer:    app.cfg.Issuer,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.tokens = codec
	app.totp = totpx.New(totpx.Config{Window: app.cfg.TOTPWindow})

	switch {
	case !app.cfg.ReplayProtection:
		app.logger.Warn("totp replay protection disabled")
	case app.redis != nil:
		app.guard = replay.NewRedisGuard(app.redis, replay.RedisConfig{})
		app.logger.Info("totp replay protection enabled", "backend", "redis")
	default:
		app.guard = replay.NewStoreGuard(app.db)
		app.logger.Info("totp replay protection enabled", "backend", "sqlite")
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	authService, err := service.NewAuthService(service.AuthConfig{
		Store:  app.db,
		Tokens: app.tokens,
		TOTP:   app.totp,
		Replay: app.guard,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}
	app.authService = authService

	app.userService = &service.UserService{Store: app.db, Tokens: app.tokens}
	app.mfaService = service.NewMFAService(service.MFAConfig{
		Store:  app.db,
		TOTP:   app.totp,
		Issuer: app.cfg.TOTPIssuer,
	})
	app.bootstrapService = &service.BootstrapService{
		Store:    app.db,
		Password: app.cfg.DevUserPassword,
	}
	return nil
}

func (app *Application) seed(ctx context.Context) error {
	if !app.cfg.SeedDevUser {
		return nil
	}
	if _, err := app.bootstrapService.SeedDevUser(slogx.WithContext(ctx, app.logger)); err != nil {
		return fmt.Errorf("failed to seed development user: %w", err)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.AuthService = app.authService
	router.UserService = app.userService
	router.MFAService = app.mfaService
	if app.redis != nil {
		router.Cache = redisPinger{app.redis}
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
