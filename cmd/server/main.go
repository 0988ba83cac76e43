package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wavehaven/host-portal-backend/internal/config"
	"github.com/wavehaven/host-portal-backend/internal/database"
	"github.com/wavehaven/host-portal-backend/internal/handlers"
	"github.com/wavehaven/host-portal-backend/internal/middleware"
	"github.com/wavehaven/host-portal-backend/internal/models"
	"github.com/wavehaven/host-portal-backend/internal/services"
	"github.com/wavehaven/host-portal-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting WaveHaven Host Portal Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// The availability repository runs its replace in a transaction and
	// needs the underlying *sqlx.DB rather than the DB interface
	sqlxDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}

	// Initialize repositories
	accountRepo := database.NewAccountRepository(db)
	profileRepo := database.NewHostProfileRepository(db)
	teamRepo := database.NewTeamMemberRepository(db)
	earningsRepo := database.NewEarningsRepository(db)
	analyticsRepo := database.NewAnalyticsRepository(db)
	bookingRepo := database.NewBookingSummaryRepository(db)
	availabilityRepo := database.NewAvailabilityRepository(sqlxDB.DB)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	auditService := services.NewAuditService(db, cfg.Security.EnableAuditLog)
	authService := services.NewAuthService(
		accountRepo,
		jwtService,
		auditService,
		cfg.JWT.AccessTokenExpiry,
		cfg.Security.BcryptCost,
		logger,
	)
	identityService := services.NewIdentityService(jwtService, accountRepo, profileRepo, logger)
	accessService := services.NewAccessService(profileRepo, teamRepo, auditService, logger)
	profileService := services.NewHostProfileService(profileRepo, accountRepo, logger)
	availabilityService := services.NewAvailabilityService(availabilityRepo, accessService, logger)
	earningsService := services.NewEarningsService(earningsRepo, accessService, auditService, logger)
	dashboardService := services.NewDashboardService(earningsRepo, bookingRepo, analyticsRepo, accessService, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewHostProfileHandler(profileService, identityService)
	availabilityHandler := handlers.NewAvailabilityHandler(
		availabilityService,
		identityService,
		cfg.Dashboard.DefaultWindowDays,
		cfg.Dashboard.MaxWindowDays,
	)
	earningsHandler := handlers.NewEarningsHandler(earningsService, identityService)
	teamHandler := handlers.NewTeamHandler(accessService, identityService)
	dashboardHandler := handlers.NewDashboardHandler(
		dashboardService,
		identityService,
		cfg.Dashboard.DefaultWindowDays,
		cfg.Dashboard.MaxWindowDays,
	)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			protected := auth.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.GET("/me", authHandler.Me)
			}
		}

		// Host profile routes (protected)
		profiles := v1.Group("/host-profiles")
		profiles.Use(middleware.AuthMiddleware(jwtService))
		{
			profiles.POST("", profileHandler.Onboard)
			profiles.GET("/me", profileHandler.GetMine)
			profiles.PATCH("/:id", profileHandler.Update)
			profiles.DELETE("/:id", profileHandler.Deactivate)

			// Availability calendar
			profiles.GET("/:id/availability", availabilityHandler.Get)
			profiles.PUT("/:id/availability", availabilityHandler.Set)

			// Earnings ledger
			profiles.GET("/:id/earnings", earningsHandler.List)
			profiles.GET("/:id/earnings/summary", earningsHandler.Summary)

			// Team roster
			profiles.GET("/:id/team", teamHandler.List)
			profiles.POST("/:id/team", teamHandler.Add)
			profiles.PUT("/:id/team/:memberId/permissions", teamHandler.UpdatePermissions)
			profiles.PUT("/:id/team/:memberId/status", teamHandler.UpdateStatus)

			// Dashboard and analytics
			profiles.GET("/:id/dashboard", dashboardHandler.Summary)
			profiles.GET("/:id/analytics", dashboardHandler.Analytics)
		}

		// Payout transitions (protected, permission-checked in the service)
		earnings := v1.Group("/earnings")
		earnings.Use(middleware.AuthMiddleware(jwtService))
		{
			earnings.POST("/:earningsId/payout", earningsHandler.TransitionPayout)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService))
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/earnings", earningsHandler.Create)
			admin.PUT("/host-profiles/:id/tier", profileHandler.ChangeTier)
			admin.POST("/analytics/recompute", dashboardHandler.Recompute)
			admin.GET("/audit", auditHandler.Recent)
			admin.POST("/audit/prune", auditHandler.Prune)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
