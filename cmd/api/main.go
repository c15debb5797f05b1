package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/logfrete/freight-api/docs"
	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/config"
	"github.com/logfrete/freight-api/internal/database"
	"github.com/logfrete/freight-api/internal/http/handler"
	"github.com/logfrete/freight-api/internal/http/middleware"
	"github.com/logfrete/freight-api/internal/http/router"
	"github.com/logfrete/freight-api/internal/jobs"
	"github.com/logfrete/freight-api/internal/logger"
	"github.com/logfrete/freight-api/internal/mailer"
	"github.com/logfrete/freight-api/internal/repository"
	"github.com/logfrete/freight-api/internal/routing"
	"github.com/logfrete/freight-api/internal/service"
	"github.com/logfrete/freight-api/internal/storage"
	"go.uber.org/zap"
)

// @title LogFrete Freight API
// @version 1.0
// @description Freight quotation and carrier negotiation API

// @contact.name API Support
// @contact.email suporte@logfrete.com.br

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "frete-staging.logfrete.com.br"
	case "production":
		docs.SwaggerInfo.Host = "frete.logfrete.com.br"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Schema migrations are applied with cmd/migrate in deployed
	// environments; in development the models drive the schema directly
	if cfg.App.Environment == "development" || cfg.App.Environment == "local" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run auto migrations: %w", err)
		}
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize outbound mail
	var mail mailer.Mailer
	if cfg.SMTP.Enabled {
		mail = mailer.NewSMTPMailer(&cfg.SMTP, log)
		log.Info("SMTP mailer initialized", zap.String("host", cfg.SMTP.Host))
	} else {
		mail = mailer.NoopMailer{}
		log.Info("SMTP disabled, mail delivery is a no-op")
	}

	// Route lookup collaborator (optional)
	routingClient := routing.NewClient(&cfg.Routing, log)

	// Token issuing
	tokenIssuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLDuration())

	// Initialize repositories
	freightMapRepo := repository.NewFreightMapRepository(db)
	carrierRepo := repository.NewCarrierRepository(db)
	truckTypeRepo := repository.NewTruckTypeRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, userRepo, mail, log)
	freightMapService := service.NewFreightMapService(freightMapRepo, carrierRepo, routingClient, log)
	negotiationService := service.NewNegotiationService(freightMapRepo, notificationService, log)
	carrierService := service.NewCarrierService(carrierRepo, log)
	truckTypeService := service.NewTruckTypeService(truckTypeRepo, log)
	userService := service.NewUserService(userRepo, tokenIssuer, log)
	invoiceService := service.NewInvoiceService(freightMapRepo, fileStorage, cfg.Storage.PublicBaseURL, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokenIssuer, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	freightMapHandler := handler.NewFreightMapHandler(freightMapService, negotiationService, log)
	carrierHandler := handler.NewCarrierHandler(carrierService, log)
	truckTypeHandler := handler.NewTruckTypeHandler(truckTypeService, log)
	userHandler := handler.NewUserHandler(userService, log)
	authHandler := handler.NewAuthHandler(userService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, cfg.Storage.MaxUploadSizeMB, log)
	routingHandler := handler.NewRoutingHandler(routingClient, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		freightMapHandler,
		carrierHandler,
		truckTypeHandler,
		userHandler,
		authHandler,
		notificationHandler,
		invoiceHandler,
		routingHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.StaleNegotiationEnabled {
		scheduler = jobs.NewScheduler(log)

		staleJob := jobs.NewStaleNegotiationJob(freightMapRepo, userRepo, notificationRepo, log)
		if err := scheduler.AddJob("stale-negotiation-reminder", cfg.Jobs.StaleNegotiationCron, staleJob.Run); err != nil {
			log.Error("Failed to register stale negotiation job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with stale negotiation job",
				zap.String("cron_expr", cfg.Jobs.StaleNegotiationCron),
			)
		}
	} else {
		log.Info("Stale negotiation reminders disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
