// Package main is the entrypoint for the ResumeForge web server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/resumeforge/resumeforge/internal/cache"
	"github.com/resumeforge/resumeforge/internal/config"
	"github.com/resumeforge/resumeforge/internal/handler"
	"github.com/resumeforge/resumeforge/internal/metrics"
	"github.com/resumeforge/resumeforge/internal/middleware"
	"github.com/resumeforge/resumeforge/internal/pdf"
	"github.com/resumeforge/resumeforge/internal/repository"
	"github.com/resumeforge/resumeforge/internal/server"
	"github.com/resumeforge/resumeforge/internal/service"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return err
	}
	logger.Info("connected to database")

	if cfg.AutoMigrate {
		if err := repo.Migrate(ctx, logger); err != nil {
			repo.Close()
			logger.Error("failed to apply migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
			return err
		}
	}

	// Initialize session store
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		repo.Close()
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return err
	}
	logger.Info("connected to Redis")

	// Initialize PDF renderer
	renderer, err := pdf.NewChromeRenderer(ctx, pdf.ChromeOptions{
		ExecPath: cfg.ChromePath,
		Timeout:  cfg.PDFRenderTimeout,
	})
	if err != nil {
		_ = cacheClient.Close()
		repo.Close()
		logger.Error("failed to start headless Chrome", slog.String("error", err.Error()))
		return err
	}
	logger.Info("headless Chrome started")

	views, err := handler.NewViews()
	if err != nil {
		_ = renderer.Close()
		_ = cacheClient.Close()
		repo.Close()
		return err
	}

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	accountService := service.NewAccountService(repo, cacheClient, cfg.SessionTTL, metricsRecorder)
	resumeService := service.NewResumeService(repo, pdf.NewExporter(renderer), metricsRecorder)

	router := handler.NewRouter(handler.RouterConfig{
		Logger: logger,
		Views:  views,
		Cookies: handler.CookieConfig{
			SessionName: cfg.SessionCookieName,
			Secure:      cfg.SecureCookies(),
		},
		Accounts:           accountService,
		Resumes:            resumeService,
		DB:                 repo,
		Cache:              cacheClient,
		Metrics:            metricsRecorder,
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		PDFFilename:        cfg.PDFFilename,
		RateLimit: middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: cacheClient,
			Enabled: cfg.RateLimitAuthEnabled,
			RPS:     cfg.RateLimitAuthRPS,
			Burst:   cfg.RateLimitAuthBurst,
		},
	})

	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Registered in dependency order; they stop in reverse.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})
	srv.OnShutdown("chrome", func(context.Context) error {
		return renderer.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "resumeforge")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
