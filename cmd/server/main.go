package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	identityapp "github.com/vendora/backend/internal/application/identity"
	monitoringapp "github.com/vendora/backend/internal/application/monitoring"
	"github.com/vendora/backend/internal/domain/partner"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/infrastructure/auth"
	"github.com/vendora/backend/internal/infrastructure/cache"
	"github.com/vendora/backend/internal/infrastructure/config"
	"github.com/vendora/backend/internal/infrastructure/event"
	"github.com/vendora/backend/internal/infrastructure/logger"
	"github.com/vendora/backend/internal/infrastructure/notification"
	"github.com/vendora/backend/internal/infrastructure/persistence"
	"github.com/vendora/backend/internal/infrastructure/restock"
	"github.com/vendora/backend/internal/infrastructure/scheduler"
	"github.com/vendora/backend/internal/infrastructure/telemetry"
	"github.com/vendora/backend/internal/interfaces/http/handler"
	"github.com/vendora/backend/internal/interfaces/http/middleware"
	"github.com/vendora/backend/internal/interfaces/http/router"
)

//	@title			Vendora Monitoring API
//	@version		1.0
//	@description	Inventory monitoring and predictive restocking engine for multi-vendor marketplaces

//	@contact.name	API Support
//	@contact.url	https://github.com/vendora/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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
		_ = logger.Sync(log)
	}()

	log.Info("Starting Vendora Monitoring Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry: traces, metrics, continuous profiling
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := logProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	if logProvider.IsEnabled() {
		bridge := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: logProvider,
			Level:          zapcore.InfoLevel,
		})
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, bridge)
		}))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Telemetry.ProfilerEnabled,
		ServerAddress:       cfg.Telemetry.ProfilerServerAddress,
		ApplicationName:     cfg.App.Name,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
		ProfileGoroutines:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database query tracing (otelgorm-style span instrumentation)
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Database connection pool metrics
	meter := meterProvider.Meter("vendora/monitoring")
	dbMetrics, err := telemetry.NewDBMetrics(meter, telemetry.DefaultDBMetricsConfig(), log)
	if err != nil {
		log.Warn("Failed to initialize database metrics", zap.Error(err))
	} else if sqlDB, err := db.DB.DB(); err == nil {
		dbMetrics.SetSQLDB(sqlDB)
		dbMetrics.StartPoolStatsCollection(ctx)
		defer dbMetrics.Stop()
	}

	// Initialize repositories
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Reservation store for cross-process notification dedup. Falls back
	// to the in-process store when Redis is unreachable.
	var reservations shared.ReservationStore
	redisStore, err := cache.NewRedisReservationStore(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory reservation store", zap.Error(err))
		reservations = cache.NewInMemoryReservationStore()
	} else {
		reservations = redisStore
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis reservation store", zap.Error(err))
			}
		}()
		log.Info("Redis reservation store connected")
	}

	// Notification channel: SMTP when configured, logging otherwise
	mailer := notification.NewSMTPMailer(cfg.Notification)
	var notifier monitoringapp.Notifier
	if cfg.Notification.Enabled {
		directory := notification.NewStaticRecipientDirectory(cfg.Notification.FromAddress)
		notifier = notification.NewEmailNotifier(mailer, directory)
		log.Info("Email notifications enabled",
			zap.String("smtp_host", cfg.Notification.SMTPHost),
			zap.Int("smtp_port", cfg.Notification.SMTPPort))
	} else {
		notifier = notification.NewLoggingNotifier(log)
	}

	// Monitoring metrics backed by OpenTelemetry
	monitoringMetrics, err := telemetry.NewMonitoringMetrics(telemetry.MonitoringMetricsConfig{
		Meter:         meter,
		Logger:        log,
		AlertProvider: telemetry.NewGormAlertMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize monitoring metrics", zap.Error(err))
	}
	monitoringMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
	defer monitoringMetrics.Stop()

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	alertService := monitoringapp.NewAlertService(alertRepo)
	alertService.SetEventPublisher(eventBus)

	restockService := monitoringapp.NewRestockService(alertRepo, productRepo, supplierRepo, cfg.Sweep.DefaultRestock, log)
	restockService.RegisterTransport(partner.RestockMethodEmail, restock.NewEmailTransport(mailer))
	restockService.RegisterTransport(partner.RestockMethodAPI, restock.NewAPITransport())
	restockService.SetEventPublisher(eventBus)
	restockService.SetMetrics(monitoringMetrics)

	sweepService := monitoringapp.NewSweepService(productRepo, warehouseRepo, alertRepo, cfg.Sweep, log)
	sweepService.SetEventPublisher(eventBus)
	sweepService.SetMetrics(monitoringMetrics)
	if cfg.Sweep.AutoRestockable {
		sweepService.SetAutoRestocker(restockService)
	}

	predictionService := monitoringapp.NewPredictionService(productRepo, orderRepo, alertRepo, log)
	predictionService.SetNotifier(notifier, reservations, cfg.Notification.ReservationTTL)

	// Alert created -> gated notification delivery
	notificationGate := monitoringapp.NewNotificationGate(alertRepo, notifier, reservations, cfg.Notification.ReservationTTL, log)
	alertCreatedHandler := monitoringapp.NewAlertCreatedHandler(alertRepo, notificationGate, log)
	eventBus.Subscribe(alertCreatedHandler)
	log.Info("Event handlers registered",
		zap.Strings("alert_created_events", alertCreatedHandler.EventTypes()))

	// Identity: JWT auth on top of the static credential store
	jwtService := auth.NewJWTService(cfg.JWT)
	credentials := identityapp.NewStaticCredentialStore()
	seedBootstrapAccount(credentials, log)
	authService := identityapp.NewAuthService(credentials, jwtService, log)

	// Background sweep scheduler
	var sweepScheduler *scheduler.SweepScheduler
	if cfg.Sweep.Enabled {
		sweepScheduler, err = scheduler.NewSweepScheduler(cfg.Sweep, sweepService, log)
		if err != nil {
			log.Fatal("Failed to initialize sweep scheduler", zap.Error(err))
		}
		if err := sweepScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start sweep scheduler", zap.Error(err))
		}
		defer func() {
			if err := sweepScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping sweep scheduler", zap.Error(err))
			}
		}()
		log.Info("Sweep scheduler started", zap.Duration("interval", cfg.Sweep.Interval))
	}

	// Initialize HTTP handlers
	alertHandler := handler.NewAlertHandler(alertService, restockService)
	monitoringHandler := handler.NewMonitoringHandler(sweepService, predictionService)
	if sweepScheduler != nil {
		monitoringHandler.SetScheduler(sweepScheduler, cfg.Sweep.Interval)
	}
	authHandler := handler.NewAuthHandler(authService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics/Profiling - Telemetry instrumentation
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:   cfg.Telemetry.ProfilerEnabled,
		SkipPaths: []string{"/health", "/api/v1/ping"},
	}))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Identity routes (login/refresh are public via skip paths)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.GET("/me", authHandler.GetCurrentUser)

	// Alert routes
	alertRoutes := router.NewDomainGroup("alerts", "/alerts")
	alertRoutes.GET("", alertHandler.List)
	alertRoutes.GET("/counts", alertHandler.Counts)
	alertRoutes.GET("/:id", alertHandler.GetByID)
	alertRoutes.POST("/:id/acknowledge", alertHandler.Acknowledge)
	alertRoutes.POST("/:id/resolve", alertHandler.Resolve)
	alertRoutes.POST("/:id/dismiss", alertHandler.Dismiss)
	alertRoutes.POST("/:id/restock", alertHandler.Restock)

	// Monitoring routes
	monitoringRoutes := router.NewDomainGroup("monitoring", "/monitoring")
	monitoringRoutes.POST("/sweep", monitoringHandler.Sweep)
	monitoringRoutes.POST("/products/:id/check", monitoringHandler.CheckProduct)
	monitoringRoutes.POST("/products/:id/prediction", monitoringHandler.PredictProduct)
	monitoringRoutes.POST("/warehouses/:id/check", monitoringHandler.CheckWarehouse)
	monitoringRoutes.GET("/scheduler/status", monitoringHandler.SchedulerStatus)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(authRoutes).
		Register(alertRoutes).
		Register(monitoringRoutes).
		Register(systemRoutes)

	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// seedBootstrapAccount registers an initial seller account from the
// environment so the API is reachable on a fresh deployment. Without
// the variables set, accounts must be provisioned by other means.
func seedBootstrapAccount(store *identityapp.StaticCredentialStore, log *zap.Logger) {
	username := os.Getenv("VENDORA_BOOTSTRAP_USERNAME")
	password := os.Getenv("VENDORA_BOOTSTRAP_PASSWORD")
	if username == "" || password == "" {
		log.Warn("No bootstrap account configured; set VENDORA_BOOTSTRAP_USERNAME and VENDORA_BOOTSTRAP_PASSWORD")
		return
	}

	account := identityapp.SellerAccount{
		Username:    username,
		DisplayName: username,
		Role:        "seller_admin",
		Active:      true,
	}
	if sellerID := os.Getenv("VENDORA_BOOTSTRAP_SELLER_ID"); sellerID != "" {
		id, err := uuid.Parse(sellerID)
		if err != nil {
			log.Error("Invalid VENDORA_BOOTSTRAP_SELLER_ID", zap.Error(err))
			return
		}
		account.SellerID = id
	} else {
		account.SellerID = uuid.New()
	}

	if err := store.AddAccountWithPassword(account, password); err != nil {
		log.Error("Failed to seed bootstrap account", zap.Error(err))
		return
	}
	log.Info("Bootstrap account registered",
		zap.String("username", username),
		zap.String("seller_id", account.SellerID.String()))
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
