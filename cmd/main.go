package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vhvplatform/go-property-automation/internal/automation"
	"github.com/vhvplatform/go-property-automation/internal/consumer"
	"github.com/vhvplatform/go-property-automation/internal/handler"
	"github.com/vhvplatform/go-property-automation/internal/metrics"
	"github.com/vhvplatform/go-property-automation/internal/middleware"
	"github.com/vhvplatform/go-property-automation/internal/repository"
	"github.com/vhvplatform/go-property-automation/internal/scheduler"
	"github.com/vhvplatform/go-property-automation/internal/service"
	"github.com/vhvplatform/go-property-automation/internal/shared/config"
	"github.com/vhvplatform/go-property-automation/internal/shared/logger"
	"github.com/vhvplatform/go-property-automation/internal/shared/mongodb"
	"github.com/vhvplatform/go-property-automation/internal/shared/rabbitmq"
)

func main() {
	// Initialize logger
	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting Property Automation Service...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}

	// Initialize MongoDB
	mongoClient, err := mongodb.NewMongoClient(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer mongoClient.Disconnect(context.Background())

	// Initialize RabbitMQ
	rabbitMQClient, err := rabbitmq.NewRabbitMQClient(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ", "error", err)
	}
	defer rabbitMQClient.Close()

	// Initialize repositories
	reminderRepo := repository.NewReminderRepository(mongoClient)
	leaseholderRepo := repository.NewLeaseholderRepository(mongoClient)
	paymentRepo := repository.NewPaymentRepository(mongoClient)
	propertyRepo := repository.NewPropertyRepository(mongoClient)
	notificationRepo := repository.NewNotificationRepository(mongoClient)

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	ensureIndexes(indexCtx, log,
		reminderRepo.EnsureIndexes,
		leaseholderRepo.EnsureIndexes,
		paymentRepo.EnsureIndexes,
		propertyRepo.EnsureIndexes,
		notificationRepo.EnsureIndexes,
	)
	indexCancel()

	// Get configuration from environment
	rateLimitPerOrg, _ := strconv.ParseFloat(getEnv("RATE_LIMIT_PER_ORG", "100"), 64)
	rateLimitBurst, _ := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "200"))

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, rabbitMQClient, log)

	processor := automation.NewProcessor(
		automation.Config{
			OverdueGraceDays:      cfg.Automation.OverdueGraceDays,
			LeaseExpiryWindowDays: cfg.Automation.LeaseExpiryWindowDays,
		},
		leaseholderRepo,
		paymentRepo,
		propertyRepo,
		reminderRepo,
		notificationService,
		log,
	)

	// Initialize scheduler
	automationScheduler := scheduler.NewAutomationScheduler(processor, cfg.Automation.Schedule, log)
	if err := automationScheduler.Start(); err != nil {
		log.Error("Failed to start scheduler", "error", err)
	}
	defer automationScheduler.Stop()

	// Initialize HTTP handlers
	reminderHandler := handler.NewReminderHandler(reminderRepo, log)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, log)
	propertyHandler := handler.NewPropertyHandler(propertyRepo, log)

	// Initialize rate limiter
	rateLimiter := middleware.NewOrgRateLimiter(rateLimitPerOrg, rateLimitBurst)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes with tenancy + rate limiting
	v1 := router.Group("/api/v1")
	v1.Use(middleware.TenancyMiddleware())
	v1.Use(middleware.RateLimitMiddleware(rateLimiter))
	{
		// Reminders
		reminders := v1.Group("/reminders")
		{
			reminders.POST("", reminderHandler.CreateReminder)
			reminders.GET("", reminderHandler.GetReminders)
			reminders.GET("/:id", reminderHandler.GetReminder)
			reminders.PUT("/:id/status", reminderHandler.UpdateReminderStatus)
			reminders.DELETE("/:id", reminderHandler.DeleteReminder)
		}

		// Notifications
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.PUT("/:id/read", notificationHandler.MarkNotificationRead)
		}

		// Properties
		properties := v1.Group("/properties")
		{
			properties.GET("/:id/occupancy", propertyHandler.GetPropertyOccupancy)
		}
	}

	// Start payment event consumer, restarting on failure
	paymentConsumer := consumer.NewPaymentConsumer(rabbitMQClient, leaseholderRepo, notificationService, log)
	go func() {
		for {
			if err := paymentConsumer.Start(); err != nil {
				log.Error("Payment consumer stopped", "error", err)
			}
			metrics.ConsumerRestarts.Inc()
			time.Sleep(5 * time.Second)
		}
	}()

	// Start HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Property Automation Service started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Property Automation Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Property Automation Service stopped")
}

// ensureIndexes creates collection indexes, logging rather than failing on error
func ensureIndexes(ctx context.Context, log *logger.Logger, fns ...func(context.Context) error) {
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			log.Warn("Failed to ensure indexes", "error", err)
		}
	}
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
