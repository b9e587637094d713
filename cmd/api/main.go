// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/tharunrega/smansys/internal/admin"
	"github.com/tharunrega/smansys/internal/auth"
	"github.com/tharunrega/smansys/internal/config"
	"github.com/tharunrega/smansys/internal/core"
	"github.com/tharunrega/smansys/internal/dashboard"
	"github.com/tharunrega/smansys/internal/health"
	"github.com/tharunrega/smansys/internal/middleware"
	"github.com/tharunrega/smansys/internal/profile"
	"github.com/tharunrega/smansys/internal/server"
	"github.com/tharunrega/smansys/internal/student"
	"github.com/tharunrega/smansys/internal/user"
)

const (
	drainDelay = 5 * time.Second

	authRequestsPerMinute = 10
	authBurst             = 5
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	users    user.Repository
	students student.Repository
	db       *core.Database
	pinger   health.Checker
}

func openStores(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*stores, error) {
	if cfg.Driver == config.DriverMemory {
		users := user.NewMemoryRepository()
		logger.Warn("using in-memory store, data is lost on restart")
		return &stores{
			users:    users,
			students: student.NewMemoryRepository(),
			pinger:   users,
		}, nil
	}

	db, err := core.NewDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	if cfg.AutoMigrate {
		if err := db.EnsureSchema(ctx); err != nil {
			_ = db.Close() //nolint:errcheck // cleanup on migration failure
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		logger.Info("database schema ensured")
	}

	return &stores{
		users:    user.NewRepository(db.DB),
		students: student.NewRepository(db.DB),
		db:       db,
		pinger:   db,
	}, nil
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	startedAt := time.Now()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)
	core.ExposeInternalErrors(!cfg.IsProduction())

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"driver", cfg.Database.Driver,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	st, err := openStores(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	var rdb *core.Redis
	if cfg.Redis.URL != "" {
		r, redisErr := core.NewRedis(ctx, cfg.Redis)
		if redisErr != nil {
			logger.Warn("redis unavailable, rate limiting is process-local",
				"error", redisErr,
			)
		} else {
			rdb = r
			logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
		}
	}

	if cfg.IsDevelopment() && cfg.JWT.Secret == config.FallbackJWTSecret {
		logger.Warn("using the built-in development JWT secret")
	}

	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "HS256",
		"expires_in", cfg.JWT.ExpiresIn,
	)

	userSvc := user.NewService(st.users)
	studentSvc := student.NewService(st.students)

	authHandler := auth.NewHandler(auth.NewService(userSvc, tokens))
	profileHandler := profile.NewHandler(profile.NewService(userSvc))
	studentHandler := student.NewHandler(studentSvc)
	dashboardHandler := dashboard.NewHandler(dashboard.NewService(st.users))

	adminCfg := admin.HandlerConfig{
		Driver:    cfg.Database.Driver,
		StartedAt: startedAt,
		DBPing:    st.pinger.Ping,
		Users:     st.users,
		Students:  studentSvc,
	}
	if st.db != nil {
		adminCfg.DBStats = st.db.Stats
	}

	healthChecks := []health.Check{{Name: "database", Checker: st.pinger}}
	if rdb != nil {
		adminCfg.RedisStats = rdb.PoolStats
		adminCfg.RedisPing = rdb.Ping
		healthChecks = append(healthChecks, health.Check{Name: "redis", Checker: rdb})
	}
	adminHandler := admin.NewHandler(adminCfg)
	healthHandler := health.NewHandler(healthChecks...)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	var redisClient *redis.Client
	if rdb != nil {
		redisClient = rdb.Client
	}

	router := srv.Router()

	clientKey := middleware.ClientKey(cfg.RateLimit.TrustProxy)

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(otel.GetTracerProvider()))
	router.Use(middleware.Logger(logger))
	router.Use(metrics.Handler)
	router.Use(
		middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Limit: middleware.NewLimit(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			KeyFunc:    clientKey,
			FailOpen:   true,
			BypassFunc: isOperationalPath,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	authenticator := middleware.Authenticator(tokens)
	adminOnly := middleware.RequireAdmin
	authLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(authRequestsPerMinute, authBurst),
		KeyFunc:  middleware.ByEndpoint(clientKey),
		FailOpen: true,
	}).Handler

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, authLimiter)
		profileHandler.RegisterRoutes(r, authenticator)
		studentHandler.RegisterRoutes(r, authenticator)
		dashboardHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	if st.db != nil {
		if err := st.db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}

func isOperationalPath(r *http.Request) bool {
	switch r.URL.Path {
	case "/health", "/healthz", "/livez", "/readyz", "/metrics":
		return true
	}
	return false
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
