package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/resumeforge/resumeforge/internal/metrics"
	"github.com/resumeforge/resumeforge/internal/middleware"
)

// SessionAccountService is an AccountService that can also resolve session cookies.
type SessionAccountService interface {
	AccountService
	middleware.Authenticator
}

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	Logger   *slog.Logger
	Views    *Views
	Cookies  CookieConfig
	Accounts SessionAccountService
	Resumes  ResumeService

	DB      HealthChecker
	Cache   HealthChecker
	Metrics metrics.Snapshotter

	IsDevelopment      bool
	MaxRequestBodySize int64
	PDFFilename        string
	RateLimit          middleware.RateLimitConfig
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	h := New(cfg.Views, cfg.Logger, cfg.Cookies)
	accounts := NewAccountHandler(h, cfg.Accounts)
	resumes := NewResumeHandler(h, cfg.Resumes, cfg.PDFFilename)
	health := NewHealthHandler(cfg.DB, cfg.Cache)
	metricsHandler := NewMetricsHandler(cfg.Metrics)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, http.HandlerFunc(h.InternalError)))

	// Probes and metrics carry no session or page headers.
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
		r.Use(middleware.Session(middleware.SessionConfig{
			Logger:        cfg.Logger,
			Authenticator: cfg.Accounts,
			CookieName:    cfg.Cookies.SessionName,
			Secure:        cfg.Cookies.Secure,
		}))

		limitAuth := middleware.RateLimitIP(cfg.RateLimit)

		r.Get("/", accounts.RegisterForm)
		r.With(limitAuth).Post("/", accounts.Register)
		r.Get(registerPath, accounts.RegisterForm)
		r.With(limitAuth).Post(registerPath, accounts.Register)
		r.Get(loginPath, accounts.LoginForm)
		r.With(limitAuth).Post(loginPath, accounts.Login)
		r.Get("/logout/", accounts.Logout)
		r.Post("/logout/", accounts.Logout)

		// Session-gated pages
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin(loginPath))

			r.Get(dashboardPath, resumes.Dashboard)
			r.Get("/create/", resumes.CreateForm)
			r.Post("/create/", resumes.Create)
			r.Get("/export/{resumeID}/", resumes.Export)
		})

		r.NotFound(h.NotFound)
		r.MethodNotAllowed(h.MethodNotAllowed)
	})

	return r
}
