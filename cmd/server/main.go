package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hospitality/backend/internal/infrastructure/config"
	"github.com/hospitality/backend/internal/infrastructure/logger"
	"github.com/hospitality/backend/internal/infrastructure/telemetry"
	"github.com/hospitality/backend/internal/interfaces/http/middleware"
	"github.com/hospitality/backend/internal/interfaces/http/router"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

//	@title			Hospitality Backend API
//	@version		1.0
//	@description	Multi-tenant backend for hotels and restaurants: reservations, staff, CRM, CMS, invoicing, guest messaging and an AI concierge.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Hospitality Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	infra, err := openInfrastructure(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize infrastructure", zap.Error(err))
	}
	defer infra.Close()

	if mp.IsEnabled() {
		if sqlDB, err := infra.db.DB.DB(); err == nil {
			if err := telemetry.RegisterDBPoolMetrics(mp.Meter("db.pool"), sqlDB); err != nil {
				log.Warn("Failed to register database pool metrics", zap.Error(err))
			}
		}
	}

	app := buildApplication(cfg, infra, log)

	if err := infra.bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := infra.bus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: the request ID must exist before the logger reads it,
	// and the tracing span must be open before SpanEnricher annotates it.
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{MeterProvider: mp, Logger: log}))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	limiters := newLimiters(cfg.HTTP)
	defer limiters.Stop()
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(limiters.global))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	engine.Use(middleware.Sanitize())

	engine.GET("/health", app.system.Health)
	engine.GET("/ready", app.system.Ready)

	guards := router.Guards{
		Authenticated: []gin.HandlerFunc{
			middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
				JWTService:     infra.jwt,
				TokenBlacklist: infra.blacklist,
				Logger:         log,
			}),
			middleware.TenantContext(),
		},
		Public: []gin.HandlerFunc{
			middleware.PublicRateLimit(limiters.public),
			middleware.PublicTenant(app.tenants),
		},
		Credentials: []gin.HandlerFunc{
			middleware.RateLimitByKey(limiters.credentials, func(c *gin.Context) string {
				return "auth:" + c.ClientIP()
			}),
		},
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	registrars := router.Routes(app.handlers, guards)
	r.Register(registrars...).Setup()
	log.Info("Routes registered", zap.Int("routes", len(engine.Routes())), zap.String("base_path", r.BasePath()))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

type limiterSet struct {
	global      *middleware.RateLimiter
	public      *middleware.RateLimiter
	credentials *middleware.RateLimiter
}

func newLimiters(cfg config.HTTPConfig) limiterSet {
	return limiterSet{
		global:      middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		public:      middleware.NewRateLimiter(cfg.PublicRateLimitRequests, cfg.PublicRateLimitWindow),
		credentials: middleware.NewRateLimiter(cfg.AuthRateLimitRequests, cfg.AuthRateLimitWindow),
	}
}

func (l limiterSet) Stop() {
	l.global.Stop()
	l.public.Stop()
	l.credentials.Stop()
}
