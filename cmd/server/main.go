package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	httpapi "renthub-backend/internal/api/http"
	"renthub-backend/internal/config"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository/postgres"
	"renthub-backend/internal/security"
	"renthub-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentHub Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)
	apiKeyVerifier := security.NewAPIKeyVerifier(cfg.Gateway.APIKeyHash)

	// Initialize Delivery Channels
	emailSender := service.NewSendGridSender(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	var pushSender service.PushSender
	if cfg.Push.Enabled {
		pushSender, err = service.NewFCMSender(context.Background(), cfg.Push.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize push sender", "error", err)
			log.Fatalf("Failed to initialize push sender: %v", err)
		}
		logger.Info("Push notifications enabled")
	} else {
		logger.Info("Push notifications disabled")
	}

	notifier := service.NewNotifier(store.NotificationRepository, store.UserRepository, emailSender, pushSender)

	// Initialize Services
	handoverSvc := service.NewHandoverService(store.TxManager, store.RentalRepository, store.TimelineRepository, notifier)
	disputeSvc := service.NewDisputeService(store.TxManager, store.RentalRepository, store.DisputeRepository, store.LedgerRepository, store.TimelineRepository, notifier)
	depositSvc := service.NewDepositService(store.TxManager, store.DepositRepository, store.LedgerRepository, notifier)
	walletSvc := service.NewWalletService(store.LedgerRepository, cfg.Ledger.DefaultCurrency)
	rentalSvc := service.NewRentalService(store.RentalRepository, store.TimelineRepository, cfg.Pricing.PlatformFeePercent, cfg.Ledger.DefaultCurrency)
	paymentSvc := service.NewPaymentService(store.TxManager, store.RentalRepository, store.DepositRepository, store.TimelineRepository, notifier)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Set up HTTP server
	mw := httpapi.NewMiddleware(tokenManager, apiKeyVerifier)
	router := httpapi.NewRouter(httpapi.Services{
		Rentals:       rentalSvc,
		Handovers:     handoverSvc,
		Disputes:      disputeSvc,
		Deposits:      depositSvc,
		Wallet:        walletSvc,
		Payments:      paymentSvc,
		Notifications: noteSvc,
	}, mw)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Failed to serve HTTP", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
