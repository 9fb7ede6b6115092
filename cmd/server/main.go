package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pricingapp "github.com/ecomm/backend/internal/application/pricing"
	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/infrastructure/cache"
	"github.com/ecomm/backend/internal/infrastructure/config"
	"github.com/ecomm/backend/internal/infrastructure/logger"
	"github.com/ecomm/backend/internal/infrastructure/persistence"
	"github.com/ecomm/backend/internal/infrastructure/telemetry"
	"github.com/ecomm/backend/internal/interfaces/http/handler"
	"github.com/ecomm/backend/internal/interfaces/http/middleware"
	"github.com/ecomm/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting pricing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register DB span instrumentation
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Default loyalty point valuation from config
	if cfg.Pricing.PointsToMoneyRate > 0 {
		pricing.DefaultPointsToMoneyRatio = decimal.NewFromFloat(cfg.Pricing.PointsToMoneyRate)
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	tierPriceRepo := persistence.NewGormTierPriceRepository(db.DB)
	customerPriceRepo := persistence.NewGormCustomerPriceRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	loyaltyRepo := persistence.NewGormLoyaltyRepository(db.DB)

	var ruleRepo pricing.PricingRuleRepository = persistence.NewGormPricingRuleRepository(db.DB)
	if cfg.Pricing.RuleCacheEnabled {
		factory := cache.NewRuleCacheFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithTTL(cfg.Pricing.RuleCacheTTL),
			cache.WithInMemoryFallback(true),
		)
		ruleCache, err := factory.CreateCache()
		if err != nil {
			log.Fatal("Failed to create rule cache", zap.Error(err))
		}
		defer func() {
			if err := ruleCache.Close(); err != nil {
				log.Error("Error closing rule cache", zap.Error(err))
			}
		}()
		ruleRepo = cache.NewCachedRuleRepository(ruleRepo, ruleCache, cfg.Pricing.RuleCacheTTL, log)
		log.Info("Rule cache enabled", zap.Duration("ttl", cfg.Pricing.RuleCacheTTL))
	}

	// Initialize pricing engine and orchestrator
	ruleEngine := pricing.NewRuleEngine(nil)
	benefits := pricing.NewBenefitStacker(membershipRepo, loyaltyRepo, log)
	pricingService := pricingapp.NewService(
		productRepo,
		tierPriceRepo,
		customerPriceRepo,
		ruleRepo,
		ruleEngine,
		benefits,
		log,
	)

	// Initialize HTTP handlers
	pricingHandler := handler.NewPricingHandler(pricingService, cfg.Pricing.MaxBatchItems, log)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, cfg.App.Env)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validator", zap.Error(err))
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// security headers, CORS, tracing
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
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

	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())

	// Mount the versioned API
	router.NewRouter().
		Register(pricingHandler, systemHandler).
		Setup(engine)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := tracerProvider.ForceFlush(ctx); err != nil {
		log.Warn("Failed to flush pending spans", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
