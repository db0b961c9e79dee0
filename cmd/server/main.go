package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/nokib-web/expensetracker/internal/application/identity"
	ledgerapp "github.com/nokib-web/expensetracker/internal/application/ledger"
	notificationapp "github.com/nokib-web/expensetracker/internal/application/notification"
	zakatapp "github.com/nokib-web/expensetracker/internal/application/zakat"
	"github.com/nokib-web/expensetracker/internal/infrastructure/auth"
	"github.com/nokib-web/expensetracker/internal/infrastructure/cache"
	"github.com/nokib-web/expensetracker/internal/infrastructure/config"
	"github.com/nokib-web/expensetracker/internal/infrastructure/logger"
	"github.com/nokib-web/expensetracker/internal/infrastructure/persistence"
	"github.com/nokib-web/expensetracker/internal/interfaces/http/handler"
	"github.com/nokib-web/expensetracker/internal/interfaces/http/middleware"
	"github.com/nokib-web/expensetracker/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database with GORM logger bridged to zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", zap.Error(err))
		}
	}()
	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Reminder throttle: Redis when configured, in-process fallback otherwise
	var throttle cache.ReminderThrottle
	if cfg.Redis.Enabled {
		redisThrottle, err := cache.NewRedisThrottle(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory throttle", zap.Error(err))
			throttle = cache.NewInMemoryThrottle()
		} else {
			log.Info("Redis reminder throttle enabled", zap.String("addr", cfg.Redis.Addr()))
			throttle = redisThrottle
		}
	} else {
		throttle = cache.NewInMemoryThrottle()
	}
	defer func() {
		if err := throttle.Close(); err != nil {
			log.Error("Error closing reminder throttle", zap.Error(err))
		}
	}()

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	assetRepo := persistence.NewGormZakatAssetRepository(db.DB)
	settingsRepo := persistence.NewGormZakatSettingsRepository(db.DB)
	paymentRepo := persistence.NewGormZakatPaymentRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	preferenceRepo := persistence.NewGormNotificationPreferenceRepository(db.DB)

	// Initialize auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	passwordHasher := auth.NewPasswordHasher()

	// Initialize application services
	notificationService := notificationapp.NewService(
		notificationRepo,
		preferenceRepo,
		throttle,
		cfg.Notification.DueReminderThrottle,
		log,
	)
	authService := identityapp.NewAuthService(
		userRepo,
		categoryRepo,
		settingsRepo,
		preferenceRepo,
		passwordHasher,
		jwtService,
		log,
	)
	categoryService := ledgerapp.NewCategoryService(categoryRepo, transactionRepo)
	transactionService := ledgerapp.NewTransactionService(
		transactionRepo,
		categoryRepo,
		notificationService,
		log,
	)
	zakatService := zakatapp.NewService(
		assetRepo,
		settingsRepo,
		paymentRepo,
		transactionRepo,
		notificationService,
		cfg.Zakat.PaymentHistoryYears,
		log,
	)

	// Initialize HTTP handlers
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	zakatHandler := handler.NewZakatHandler(zakatService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

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
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
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

	// Health endpoints (outside API versioning)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Identity domain - public auth routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.AuthRateLimit(authLimiter))
	}
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)

	// Identity domain - protected routes
	profileRoutes := router.NewDomainGroup("profile", "/auth")
	profileRoutes.GET("/profile", authHandler.Profile)

	// Ledger domain (categories, transactions)
	categoryRoutes := router.NewDomainGroup("categories", "/categories")
	categoryRoutes.POST("", categoryHandler.Create)
	categoryRoutes.GET("", categoryHandler.List)
	categoryRoutes.PUT("/:id", categoryHandler.Update)
	categoryRoutes.DELETE("/:id", categoryHandler.Delete)

	transactionRoutes := router.NewDomainGroup("transactions", "/transactions")
	transactionRoutes.POST("", transactionHandler.Create)
	transactionRoutes.GET("", transactionHandler.List)
	transactionRoutes.GET("/balance", transactionHandler.NetBalance)
	transactionRoutes.GET("/:id", transactionHandler.Get)
	transactionRoutes.PUT("/:id", transactionHandler.Update)
	transactionRoutes.DELETE("/:id", transactionHandler.Delete)

	// Zakat domain (summary, assets, settings, payments)
	zakatRoutes := router.NewDomainGroup("zakat", "/zakat")
	zakatRoutes.GET("/summary", zakatHandler.Summary)
	zakatRoutes.POST("/assets", zakatHandler.CreateAsset)
	zakatRoutes.GET("/assets", zakatHandler.ListAssets)
	zakatRoutes.PUT("/assets/:id", zakatHandler.UpdateAsset)
	zakatRoutes.DELETE("/assets/:id", zakatHandler.DeleteAsset)
	zakatRoutes.GET("/settings", zakatHandler.GetSettings)
	zakatRoutes.PUT("/settings", zakatHandler.UpdateSettings)
	zakatRoutes.GET("/payments", zakatHandler.ListPayments)
	zakatRoutes.POST("/pay", zakatHandler.Pay)

	// Notification domain (inbox, preferences)
	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/unread-count", notificationHandler.UnreadCount)
	notificationRoutes.PUT("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.PUT("/read-all", notificationHandler.MarkAllRead)
	notificationRoutes.GET("/preferences", notificationHandler.GetPreferences)
	notificationRoutes.PUT("/preferences", notificationHandler.UpdatePreferences)

	// Register all domain groups
	r.Register(authRoutes).
		Register(profileRoutes).
		Register(categoryRoutes).
		Register(transactionRoutes).
		Register(zakatRoutes).
		Register(notificationRoutes)

	r.Setup()

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

	log.Info("Server exited gracefully")
}
