package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"productos/internal/config"
	"productos/internal/database"
	"productos/internal/handlers"
	"productos/internal/logging"
	"productos/internal/middleware"
	"productos/internal/repositories"
	"productos/internal/server"
	"productos/internal/services"
	"productos/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	// --- Database ---
	// A failed connection leaves the API up in degraded mode.
	db, err := database.Open(database.Config{
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	}, log)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	_ = database.Connect(context.Background(), db, log)

	// --- Product events (optional) ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, product events disabled")
		} else {
			publisher = mqClient
			log.Info("RabbitMQ connected, publishing product events")
		}
	}

	// --- Wiring ---
	productRepo := repositories.NewGORMProductRepository(db)
	productService := services.NewProductService(productRepo, publisher, log)
	productHandler := handlers.NewProductHandler(productService, log)

	app := server.New(server.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AccessLog:      true,
	}, db, productHandler, middleware.NewMetrics(), log)

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("Rest API corriendo en %s", cfg.Address())
		if err := app.Listen(cfg.Address()); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.WithError(err).Error("Error closing RabbitMQ client")
		}
	}
	if err := database.Close(db); err != nil {
		log.WithError(err).Error("Error closing database")
	}
	log.Info("Server gracefully stopped")
}
