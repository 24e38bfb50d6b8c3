package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/smartoffice/authcore/internal/auth/domain"
	"github.com/smartoffice/authcore/internal/auth/service"
	"github.com/smartoffice/authcore/internal/auth/store"
	"github.com/smartoffice/authcore/pkg/httpx"
	"github.com/smartoffice/authcore/pkg/slogx"

	_ "github.com/smartoffice/authcore/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	UserService *service.UserService
	MFAService  *service.MFAService

	// Cache is checked by /readyz when set (the Redis replay guard).
	Cache Pinger
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Tracing wraps logging so request logs run inside the server span.
	r.middlewares = []httpx.Middleware{
		otelhttp.NewMiddleware("authcore", otelhttp.WithSpanNameFormatter(r.spanName)),
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMFA()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Smart Office Authentication Service API
//	@version		0.1.0
//	@description	Account registration, password login with optional TOTP two-factor authentication, and TOTP enrollment.
//	@description
//	@description				Access tokens are HMAC-signed JWTs. Send them as "Authorization: Bearer {token}".
//
//	@contact.name				Smart Office Team
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.handler == nil {
		httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
		return
	}
	r.handler.ServeHTTP(w, req)
}

// spanName names server spans after the route pattern the request will be
// dispatched to, so raw paths never become span names.
func (r *Router) spanName(_ string, req *http.Request) string {
	_, pattern := r.Mux.Handler(req)
	if pattern == "" {
		return req.Method
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		pattern = path
	}
	return req.Method + " " + pattern
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware[domain.User](
		httpx.ResolverFunc[domain.User](r.UserService.CurrentUser),
		writeAuthnError,
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService: r.AuthService,
		UserService: r.UserService,
	}

	r.Mux.Handle("POST /v1/auth/register", http.HandlerFunc(h.HandleRegister))
	r.Mux.Handle("POST /v1/auth/login", http.HandlerFunc(h.HandleLogin))
	r.Mux.Handle("GET /v1/auth/me", httpx.Chain(MeHandler(), r.authn()))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}
	authn := r.authn()

	r.Mux.Handle("POST /v1/auth/2fa/setup", httpx.Chain(http.HandlerFunc(h.HandleSetup), authn))
	r.Mux.Handle("POST /v1/auth/2fa/enable", httpx.Chain(http.HandlerFunc(h.HandleEnable), authn))
	r.Mux.Handle("POST /v1/auth/2fa/disable", httpx.Chain(http.HandlerFunc(h.HandleDisable), authn))
	r.Mux.Handle("POST /v1/auth/2fa/verify", httpx.Chain(http.HandlerFunc(h.HandleVerify), authn))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Cache))
}
