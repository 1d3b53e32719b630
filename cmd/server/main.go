package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chengtian/temple-backend/config"
	"github.com/chengtian/temple-backend/internal/app/controller"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/internal/app/service"
	"github.com/chengtian/temple-backend/internal/db"
	"github.com/chengtian/temple-backend/internal/notify"
	"github.com/chengtian/temple-backend/internal/ratelimit"
	"github.com/chengtian/temple-backend/internal/router"
	"github.com/chengtian/temple-backend/internal/scheduler"
	"github.com/chengtian/temple-backend/internal/session"
	"github.com/chengtian/temple-backend/internal/storage"
	ws "github.com/chengtian/temple-backend/internal/websocket"
	"github.com/chengtian/temple-backend/pkg/line"
	"github.com/chengtian/temple-backend/pkg/logger"
	pkgredis "github.com/chengtian/temple-backend/pkg/redis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting temple backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	loc := cfg.Site.Location()

	// Database is optional; without it the store routes answer 500
	var database *gorm.DB
	if cfg.Database.Enabled() {
		database, err = db.Open(&cfg.Database)
		if err != nil {
			logger.Fatal("Failed to initialize database", err)
		}
		if err := db.Migrate(database); err != nil {
			logger.Fatal("Failed to run migrations", err)
		}
		if err := db.Seed(database); err != nil {
			logger.Warn("Failed to seed database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	} else {
		logger.Warn("DATABASE_URL not set, store routes disabled", nil)
	}

	// Redis backs sessions and rate limits when configured
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
	}

	var (
		sessionStore session.Store
		nonceStore   session.NonceStore
		limiter      ratelimit.Limiter
		loginLimiter ratelimit.Limiter
	)
	if redisClient != nil {
		sessionStore = session.NewRedisStore(redisClient, cfg.Session.TTL)
		nonceStore = session.NewRedisNonceStore(redisClient)
		limiter = ratelimit.NewRedisFixedWindow(redisClient, "api", ratelimit.PerMinute(cfg.RateLimit.PerMinute))
		loginLimiter = ratelimit.NewRedisFixedWindow(redisClient, "login", ratelimit.PerMinute(cfg.RateLimit.LoginPerMinute))
	} else {
		sessionStore = session.NewMemoryStore(cfg.Session.TTL)
		nonceStore = session.NewMemoryNonceStore()
		limiter = ratelimit.NewFixedWindow(ratelimit.PerMinute(cfg.RateLimit.PerMinute))
		loginLimiter = ratelimit.NewFixedWindow(ratelimit.PerMinute(cfg.RateLimit.LoginPerMinute))
	}
	sessions := session.NewManager(sessionStore, cfg.Session.Secret, cfg.Session.CookieName, cfg.Session.TTL, cfg.Server.Production)

	// Outbound mail
	var mailer notify.Mailer = notify.Disabled{}
	if cfg.Mail.Enabled() {
		sendGrid, err := notify.NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.Mail.Sender, cfg.Mail.SenderName)
		if err != nil {
			logger.Fatal("Failed to initialize SendGrid", err)
		}
		mailer = sendGrid
	} else {
		logger.Warn("SendGrid not configured, emails will only be logged", nil)
	}
	dispatcher := notify.NewDispatcher(mailer, cfg.Mail.QueueSize, cfg.Mail.Workers)
	dispatcher.Start()

	composer := notify.NewComposer(notify.SiteInfo{
		Name:            cfg.Site.Name,
		BankName:        cfg.Site.BankName,
		BankCode:        cfg.Site.BankCode,
		BankAccount:     cfg.Site.BankAccount,
		BankAccountName: cfg.Site.BankAccountName,
	}, loc)

	hub := ws.NewHub()
	go hub.Run()

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(database)
	productRepo := repository.NewProductRepository(database)
	feedbackRepo := repository.NewFeedbackRepository(database)
	shipmentRepo := repository.NewShipmentRepository(database)
	userRepo := repository.NewUserRepository(database)
	announcementRepo := repository.NewAnnouncementRepository(database)
	faqRepo := repository.NewFAQRepository(database)
	linkRepo := repository.NewLinkRepository(database)
	settingRepo := repository.NewSettingRepository(database)

	// LINE Login is optional
	var lineAuthenticator service.Authenticator
	lineClient, err := line.NewClient(line.Config{
		ChannelID:     cfg.Line.ChannelID,
		ChannelSecret: cfg.Line.ChannelSecret,
		CallbackURL:   cfg.Line.CallbackURL,
	})
	if err != nil {
		logger.Warn("LINE Login not configured", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		lineAuthenticator = lineClient
	}

	// Initialize services
	orderService := service.NewOrderService(orderRepo, productRepo, dispatcher, composer, hub, loc)
	feedbackService := service.NewFeedbackService(feedbackRepo, userRepo, dispatcher, composer, hub, loc)
	shipmentService := service.NewShipmentService(shipmentRepo, hub, loc)
	captchaService := service.NewCaptchaService()
	productService := service.NewProductService(productRepo)
	contentService := service.NewContentService(announcementRepo, faqRepo, linkRepo, loc)
	fundService := service.NewFundService(settingRepo)
	exportService := service.NewExportService(orderRepo, shipmentRepo, feedbackRepo, loc)
	authService := service.NewAuthService(cfg.Admin.PasswordHash)
	lineAuthService := service.NewLineAuthService(lineAuthenticator, nonceStore, userRepo)

	if !authService.Enabled() {
		logger.Warn("ADMIN_PASSWORD_HASH not set, admin console disabled", nil)
	}

	// Initialize controllers
	controllers := router.Controllers{
		Order:    controller.NewOrderController(orderService),
		Feedback: controller.NewFeedbackController(feedbackService),
		Shipment: controller.NewShipmentController(shipmentService, captchaService),
		Product:  controller.NewProductController(productService),
		Content:  controller.NewContentController(contentService, fundService),
		Auth:     controller.NewAuthController(authService, sessions),
		Line:     controller.NewLineController(lineAuthService, sessions, cfg.Line.LoginRedirect),
		Export:   controller.NewExportController(exportService),
		Events:   controller.NewEventsController(hub, cfg.CORS.AllowedOrigins),
	}

	if cfg.S3.Enabled() {
		s3Storage, err := storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			logger.Error("Failed to initialize S3 storage, uploads disabled", err)
		} else {
			controllers.Upload = controller.NewUploadController(s3Storage)
		}
	}

	// Expired order cleanup
	var cleanup *scheduler.CleanupScheduler
	if database != nil {
		cleanup = scheduler.NewCleanupScheduler(orderService, cfg.Scheduler.CleanupCron, loc)
		if err := cleanup.Start(); err != nil {
			logger.Error("Failed to start cleanup scheduler", err, map[string]interface{}{
				"cron": cfg.Scheduler.CleanupCron,
			})
			cleanup = nil
		}
	}

	// Setup router
	r := router.NewRouter(controllers, sessions, limiter, loginLimiter, database != nil, cfg)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", err)
	}
	if cleanup != nil {
		cleanup.Stop(ctx)
	}
	hub.Stop()
	if err := dispatcher.Stop(ctx); err != nil {
		logger.Error("Mail queue not drained before shutdown", err)
	}
	if database != nil {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}
	if err := pkgredis.Close(redisClient); err != nil {
		logger.Error("Failed to close Redis connection", err)
	}

	logger.Info("Server stopped successfully")
}
