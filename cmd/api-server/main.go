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

	"github.com/khallude/Healthify-Solutions-sub001/internal/auth"
	"github.com/khallude/Healthify-Solutions-sub001/internal/blog"
	"github.com/khallude/Healthify-Solutions-sub001/internal/notify"
	"github.com/khallude/Healthify-Solutions-sub001/internal/scheduling"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/config"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/database"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/monitoring"
)

const (
	serviceName    = "health-heaven-api"
	serviceVersion = "1.0.0"
)

func main() {
	// Configuration is validated up front. A missing JWT secret or database
	// password aborts startup instead of surfacing per request.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("Starting Health Heaven API server", "version", serviceVersion)

	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.CreateSchema(context.Background()); err != nil {
		log.Error("Failed to create database schema", "error", err)
		os.Exit(1)
	}

	// Wiring
	metrics := monitoring.NewMetricsCollector(serviceName)
	mailer := notify.NewSMTPMailer(&cfg.SMTP, log, metrics)

	accountRepo := auth.NewAccountRepository(db, log)
	hasher := auth.NewPasswordHasher()
	tokens, err := auth.NewTokenService(&cfg.JWT)
	if err != nil {
		log.Error("Failed to initialize token service", "error", err)
		os.Exit(1)
	}
	otpManager := auth.NewOTPManager(accountRepo, mailer, log, metrics, &cfg.OTP)
	authService := auth.NewService(accountRepo, hasher, tokens, otpManager, mailer, log, metrics)

	appointmentRepo := scheduling.NewRepository(db, log)
	appointmentService := scheduling.NewService(appointmentRepo, accountRepo, mailer, log)

	blogRepo := blog.NewRepository(db, log)
	blogService := blog.NewService(blogRepo, log)

	go samplePoolStats(db, metrics)

	health := monitoring.NewHealthManager(serviceName, serviceVersion)
	health.RegisterChecker("database", monitoring.NewDatabaseHealthChecker(db.DB))
	health.RegisterChecker("smtp", monitoring.NewSMTPHealthChecker(cfg.SMTP.Host, cfg.SMTP.Port))

	// Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log), metrics.GinMiddleware())

	router.GET("/health", health.GinHandler())
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")
	auth.NewHandler(authService, tokens, log).RegisterRoutes(api)
	scheduling.NewHandler(appointmentService, tokens, log).RegisterRoutes(api)
	blog.NewHandler(blogService, tokens, log).RegisterRoutes(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}

// samplePoolStats feeds the connection pool gauge on a fixed interval
func samplePoolStats(db *database.DB, metrics *monitoring.MetricsCollector) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		metrics.RecordDBConnection(db.Name(), db.Stats().OpenConnections)
	}
}

// requestLogger emits one structured log line per request
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.HTTPRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.ClientIP(),
			c.Writer.Status(),
			time.Since(start).Milliseconds(),
		)
	}
}
