package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/digiclever/dispenser/internal/domain/usecase/account"
	"github.com/digiclever/dispenser/internal/domain/usecase/processor"
	"github.com/digiclever/dispenser/internal/domain/usecase/resolver"
	"github.com/digiclever/dispenser/internal/domain/usecase/scanner"

	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/api/handler"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/api/routes"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/database"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/events"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/feedback"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/logger"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/model"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/reader"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/repository"
	timeProvider "github.com/digiclever/dispenser/internal/infrastructure/adapter/time"
	"github.com/digiclever/dispenser/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() { _ = appLogger.Flush() }()

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Setup database configuration
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
	}

	// Connect to the ledger store
	conn, err := database.NewConnection(dbConfig)
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer conn.Close()

	// Run schema migrations
	if err := conn.DB.AutoMigrate(&model.User{}, &model.Device{}, &model.Transaction{}); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Event sinks: the in-process bus always, the broker mirror when enabled
	bus := events.NewBus(appLogger)
	var sink coreport.EventSink = bus
	if cfg.AMQP.Enabled {
		publisher, err := events.NewAMQPPublisher(events.AMQPConfig{
			Host:     cfg.AMQP.Host,
			Port:     cfg.AMQP.Port,
			User:     cfg.AMQP.User,
			Password: cfg.AMQP.Password,
			VHost:    cfg.AMQP.VHost,
			Exchange: cfg.AMQP.Exchange,
		}, appLogger)
		if err != nil {
			appLogger.Error("Failed to connect to event broker", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer publisher.Close()
		sink = events.NewTee(bus, publisher)
	}

	// Indicator
	actuator := feedback.NewLEDActuator(feedback.NewNoopDriver(appLogger), tp, appLogger)
	defer actuator.Stop()

	// Initialize repositories
	userRepo := repository.NewUserRepository(conn.DB, tp, appLogger)
	transactionRepo := repository.NewTransactionRepository(conn.DB, appLogger)

	// Initialize use cases
	res := resolver.NewResolver(userRepo, appLogger)
	proc := processor.NewProcessor(userRepo, cfg.Dispenser.ID, tp, actuator, sink, appLogger)
	accounts := account.NewAccountUseCase(userRepo, transactionRepo, tp, sink, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The scan loop runs only with a reader attached; without one the kiosk
	// still serves the API
	if cfg.Reader.Port == "" {
		appLogger.Warn("No reader port configured, running without device detection", nil)
	} else {
		cardReader, err := reader.NewSerialReader(reader.Config{
			Port:     cfg.Reader.Port,
			BaudRate: cfg.Reader.BaudRate,
		}, appLogger)
		if err != nil {
			appLogger.Error("Failed to open reader", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer cardReader.Close()

		scan := scanner.NewScanner(cardReader, res, proc, tp, sink, appLogger, scanner.Config{
			PollInterval: coreport.Duration(cfg.Dispenser.PollIntervalMs) * coreport.Millisecond,
			ReadTimeout:  coreport.Duration(cfg.Dispenser.ReadTimeoutMs) * coreport.Millisecond,
			ReleaseAfter: coreport.Duration(cfg.Dispenser.ReleaseTimeoutMs) * coreport.Millisecond,
			WarningHold:  coreport.Duration(cfg.Dispenser.WarningHoldMs) * coreport.Millisecond,
		})
		go func() {
			if err := scan.Run(ctx); err != nil && ctx.Err() == nil {
				appLogger.Error("Scan loop stopped unexpectedly", map[string]any{
					"error": err.Error(),
				})
			}
		}()
	}

	// Initialize API handlers
	accountHandler := handler.NewAccountHandler(accounts, appLogger)
	deviceHandler := handler.NewDeviceHandler(accounts, res, proc, appLogger)

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, accountHandler, deviceHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":         server.Addr,
			"env":          cfg.Environment,
			"dispenser_id": cfg.Dispenser.ID,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...", nil)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	if cfg.Database.Host == "" {
		missingConfigs = append(missingConfigs, "database.host (or DSP_DB_HOST environment variable)")
	}
	if cfg.Database.Username == "" {
		missingConfigs = append(missingConfigs, "database.username (or DSP_DB_USERNAME environment variable)")
	}
	if cfg.Database.Password == "" {
		missingConfigs = append(missingConfigs, "database.password (or DSP_DB_PASSWORD environment variable)")
	}
	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database (or DSP_DB_NAME environment variable)")
	}

	if cfg.Dispenser.ID == "" {
		missingConfigs = append(missingConfigs, "dispenser.id")
	}
	if cfg.Dispenser.PollIntervalMs <= 0 {
		missingConfigs = append(missingConfigs, "dispenser.pollIntervalMs")
	}
	if cfg.Dispenser.ReleaseTimeoutMs <= 0 {
		missingConfigs = append(missingConfigs, "dispenser.releaseTimeoutMs")
	}

	if cfg.AMQP.Enabled {
		if cfg.AMQP.Host == "" {
			missingConfigs = append(missingConfigs, "amqp.host")
		}
		if cfg.AMQP.Exchange == "" {
			missingConfigs = append(missingConfigs, "amqp.exchange")
		}
	}

	if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	return nil
}
