// Package main runs the EventHive ticketing HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eventhive/backend/config"
	"github.com/eventhive/backend/internal/artifact"
	"github.com/eventhive/backend/internal/auth"
	"github.com/eventhive/backend/internal/bookings"
	"github.com/eventhive/backend/internal/events"
	"github.com/eventhive/backend/internal/middleware"
	"github.com/eventhive/backend/internal/models"
	"github.com/eventhive/backend/internal/notify"
	"github.com/eventhive/backend/internal/payment"
	"github.com/eventhive/backend/internal/users"
	"github.com/eventhive/backend/pkg/database"
	"github.com/eventhive/backend/pkg/redis"
	"github.com/eventhive/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Sessions
	tokens := auth.NewTokenService(cfg.Session.Secret, cfg.Session.ExpireHours)
	sessions := auth.NewSessionStore(rdb.Client)

	// Payment gateway: nil means test mode (orders and signatures simulated
	// locally; email and PDF generation still run for real).
	var gateway payment.Gateway
	if payment.Configured(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret) {
		gateway = payment.NewRazorpay(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
		logger.Info("payment gateway configured", zap.String("key_id", cfg.Razorpay.KeyID))
	} else {
		logger.Warn("payment gateway not configured, running in test mode")
	}

	// Users
	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, tokens, sessions, logger)

	// Events
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, logger)

	// Bookings & payment workflow
	generator := artifact.NewGenerator(gateway == nil)
	emailLogRepo := notify.NewRepository(pool)
	mailer := notify.NewMailer(cfg.Email, emailLogRepo, logger)
	bookingRepo := bookings.NewRepository(pool)
	workflow := bookings.NewWorkflow(bookingRepo, userRepo, eventRepo, gateway, generator, mailer, logger)
	bookingHandler := bookings.NewHandler(workflow, bookingRepo, userRepo, eventRepo, emailLogRepo, logger)

	authRequired := middleware.Auth(tokens, sessions)
	organizerOnly := middleware.RequireRole(models.RoleOrganizer)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	userGroup := router.Group("/users")
	{
		userGroup.POST("/register", userHandler.Register)
		userGroup.POST("/login", userHandler.Login)
		userGroup.POST("/logout", authRequired, userHandler.Logout)
		userGroup.GET("/profile", authRequired, userHandler.Profile)
		userGroup.GET("/:id", userHandler.GetByID)
	}

	eventGroup := router.Group("/events")
	{
		eventGroup.GET("/", eventHandler.List)
		eventGroup.POST("/", authRequired, organizerOnly, eventHandler.Create)
		eventGroup.GET("/:id", eventHandler.GetByID)
		eventGroup.PUT("/:id", authRequired, organizerOnly, eventHandler.Update)
		eventGroup.DELETE("/:id", authRequired, organizerOnly, eventHandler.Delete)
	}

	bookingGroup := router.Group("/bookings")
	{
		bookingGroup.POST("/create-order", bookingHandler.CreateOrder)
		bookingGroup.POST("/verify-payment", bookingHandler.VerifyPayment)
		bookingGroup.GET("/event/:id", bookingHandler.ListByEvent)
		bookingGroup.GET("/user/:id", bookingHandler.ListByUser)
		bookingGroup.GET("/:id", bookingHandler.GetByID)
		bookingGroup.GET("/:id/ticket", bookingHandler.DownloadTicket)
		bookingGroup.POST("/:id/email/resend", bookingHandler.ResendEmail)
		bookingGroup.GET("/:id/emails", bookingHandler.ListEmails)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
