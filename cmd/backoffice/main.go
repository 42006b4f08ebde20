package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storetrack/backoffice/internal/config"
	"github.com/storetrack/backoffice/internal/delivery/events"
	"github.com/storetrack/backoffice/internal/pkg/cache"
	"github.com/storetrack/backoffice/internal/pkg/database"
	"github.com/storetrack/backoffice/internal/pkg/logger"
	cacheRepo "github.com/storetrack/backoffice/internal/repository/cache"
	"github.com/storetrack/backoffice/internal/repository/postgres"
	"github.com/storetrack/backoffice/internal/usecase/abc"
	"github.com/storetrack/backoffice/internal/usecase/product"
	"github.com/storetrack/backoffice/internal/usecase/sale"
)

// Engine bundles the wired services for the delivery layer that hosts this
// process. Transport (HTTP routing, serialization) lives outside this module.
type Engine struct {
	Sales          *sale.Service
	Products       *product.Service
	Classification *abc.Service
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting back office engine...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	productRepo := postgres.NewProductRepository(db)
	buyerRepo := postgres.NewBuyerRepository(db)
	sellerRepo := postgres.NewSellerRepository(db)
	saleRepo := postgres.NewSaleRepository(db)
	lineItemRepo := postgres.NewLineItemRepository(db)
	txManager := postgres.NewTxManager(db)
	redisCache := cacheRepo.NewRedisCache(redisClient, cfg.Cache.ClassificationTTL)

	engine := &Engine{
		Sales: sale.NewService(
			saleRepo,
			sellerRepo,
			buyerRepo,
			productRepo,
			txManager,
			redisCache,
			publisher,
			appLogger,
		),
		Products:       product.NewService(productRepo, lineItemRepo, appLogger),
		Classification: abc.NewService(lineItemRepo, redisCache, appLogger),
	}
	// Warm the classification cache so the first read is served hot
	warmCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := engine.Classification.Classify(warmCtx); err != nil {
		appLogger.Warnf("Failed to warm classification cache: %v", err)
	}
	cancel()

	appLogger.Info("Engine ready")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	appLogger.Info("Engine stopped gracefully")
}
