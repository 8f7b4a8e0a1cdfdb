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
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"github.com/taipeitrip/booking-backend/internal/cache"
	"github.com/taipeitrip/booking-backend/internal/config"
	"github.com/taipeitrip/booking-backend/internal/database"
	"github.com/taipeitrip/booking-backend/internal/handlers"
	"github.com/taipeitrip/booking-backend/internal/middleware"
	"github.com/taipeitrip/booking-backend/internal/services"
	"github.com/taipeitrip/booking-backend/pkg/jwt"
	"github.com/taipeitrip/booking-backend/pkg/tappay"
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

	logger.Info("Starting Taipei Trip Booking Backend")
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
	logger.Info("Database connection established")

	// Optional catalog cache
	var catalogCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		catalogCache = cache.NewRedisCache(cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := catalogCache.Ping(ctx); err != nil {
			logger.Warnf("Redis not reachable, catalog cache disabled: %v", err)
			catalogCache = nil
		} else {
			logger.Info("Catalog cache enabled")
			defer catalogCache.Close()
		}
		cancel()
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	memberRepository := database.NewMemberRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	orderRepository := database.NewOrderRepository(db)
	favoriteRepository := database.NewFavoriteRepository(db)
	attractionRepository := database.NewAttractionRepository(db)

	paymentGateway := tappay.NewClient(tappay.Config{
		APIURL:     cfg.TapPay.APIURL,
		PartnerKey: cfg.TapPay.PartnerKey,
		MerchantID: cfg.TapPay.MerchantID,
		Currency:   cfg.TapPay.Currency,
		Timeout:    cfg.TapPay.Timeout,
	}, logger)

	authService := services.NewAuthService(memberRepository, jwtService)
	orderService := services.NewOrderService(bookingRepository, attractionRepository, paymentGateway, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, jwtService)
	bookingHandler := handlers.NewBookingHandler(bookingRepository, attractionRepository)
	orderHandler := handlers.NewOrderHandler(orderService, orderRepository)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteRepository, attractionRepository)
	attractionHandler := handlers.NewAttractionHandler(attractionRepository, catalogCache, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

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

	// API routes
	api := router.Group("/api")
	{
		// Public catalog
		api.GET("/attractions", attractionHandler.List)
		api.GET("/attractions/:attractionID", attractionHandler.GetByID)
		api.GET("/mrts", attractionHandler.ListMRTs)

		// Registration and session
		api.POST("/user", authHandler.Register)
		api.PUT("/user/auth", authHandler.SignIn)
		api.GET("/user/auth", authHandler.Me)

		// Member-scoped endpoints behind the token gate
		authed := api.Group("", middleware.AuthMiddleware(jwtService))
		{
			authed.GET("/booking", bookingHandler.GetPending)
			authed.POST("/booking", bookingHandler.CreatePending)
			authed.DELETE("/booking", bookingHandler.DeletePending)

			authed.POST("/orders", orderHandler.Create)
			authed.GET("/order/:orderNumber", orderHandler.GetByNumber)
			authed.GET("/member", orderHandler.ListForMember)

			authed.GET("/favorite", favoriteHandler.List)
			authed.POST("/favorite", favoriteHandler.Add)
			authed.DELETE("/favorite", favoriteHandler.Remove)
		}
	}

	// HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	// Graceful shutdown with timeout
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
		}

		// Parsed client info rather than the raw user agent string
		ua := user_agent.New(c.Request.UserAgent())
		browser, browserVersion := ua.Browser()
		fields["browser"] = browser + " " + browserVersion
		fields["os"] = ua.OS()
		fields["mobile"] = ua.Mobile()

		// Authorization header presence only, never the token itself
		fields["has_auth"] = c.GetHeader("Authorization") != ""

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		if status >= 500 {
			entry.Error("Request completed with server error")
		} else if status >= 400 {
			entry.Warn("Request completed with client error")
		} else {
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
