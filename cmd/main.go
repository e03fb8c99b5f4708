package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog_service/config"
	"catalog_service/internal/auth"
	"catalog_service/internal/clients"
	"catalog_service/internal/delivery"
	grpcHandler "catalog_service/internal/delivery/grpc"
	"catalog_service/internal/domain"
	"catalog_service/internal/repository"
	"catalog_service/internal/storage"
	"catalog_service/internal/usecase"
	"catalog_service/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const notifierBuffer = 256

func main() {
	logger := setupLogger("info")

	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s' in config, using default 'info'. Error: %v", cfg.LogLevel, err)
	} else {
		logger.SetLevel(logLevel)
	}
	if logLevel != logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("Starting %s...", cfg.ServiceName)

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Errorf("Error closing database connection: %v", err)
		} else {
			logger.Info("Database connection closed.")
		}
	}()
	logger.Info("Database connection established successfully.")

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx, database)
	cancelMigrate()
	if err != nil {
		logger.Fatalf("Failed to apply schema: %v", err)
	}

	blobs, closeBlobs := setupBlobStore(cfg, logger)
	defer closeBlobs()

	notifier := setupNotifier(cfg, logger)
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Errorf("Error closing notifier: %v", err)
		}
	}()

	categoryRepo := repository.NewPostgresCategoryRepository(database, logger)
	productRepo := repository.NewPostgresProductRepository(database, logger)
	cartRepo := repository.NewPostgresCartRepository(database, logger)
	userRepo := repository.NewPostgresUserRepository(database, logger)

	tokens := auth.NewTokenManager(cfg.JWTSecret)

	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, categoryRepo, blobs, cfg.MaxUploadBytes, logger)
	cartUseCase := usecase.NewCartUseCase(cartRepo, logger)
	checkoutUseCase := usecase.NewCheckoutUseCase(cartRepo, userRepo, notifier, logger)
	authUseCase := usecase.NewAuthUseCase(userRepo, tokens, cfg.TokenTTL, cfg.IsAdminEmail, logger)

	router := delivery.NewRouter(
		delivery.RouterConfig{
			ServiceName:    cfg.ServiceName,
			CORSOrigins:    cfg.CORSOrigins,
			MaxUploadBytes: cfg.MaxUploadBytes,
		},
		delivery.Handlers{
			Category: delivery.NewCategoryHandler(categoryUseCase, logger),
			Product:  delivery.NewProductHandler(productUseCase, cfg.MaxUploadBytes, logger),
			Cart:     delivery.NewCartHandler(cartUseCase, checkoutUseCase, logger),
			Auth:     delivery.NewAuthHandler(authUseCase, logger),
		},
		tokens,
		logger,
	)

	srv := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to serve HTTP: %v", err)
		}
		logger.Info("HTTP server stopped serving.")
	}()

	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		logger.Fatalf("Failed to listen on gRPC port %s: %v", cfg.GRPCPort, err)
	}
	grpcServer := grpcHandler.NewServer(grpcHandler.NewCatalogHandler(productUseCase, categoryUseCase, logger), logger)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Warn("Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP server forced to shutdown: %v", err)
	}
	grpcServer.Stop()
	logger.Infof("%s shut down gracefully.", cfg.ServiceName)
}

func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using default 'info'. Error: %v", level, err)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

func setupBlobStore(cfg *config.Config, logger *logrus.Logger) (domain.BlobStore, func()) {
	if cfg.BlobBackend == "redis" {
		rdb := storage.NewRedisClient(cfg.RedisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		logger.Infof("Storing images in Redis at %s", cfg.RedisAddr)
		return storage.NewRedisBlobStore(rdb, logger), func() {
			if err := rdb.Close(); err != nil {
				logger.Errorf("Error closing Redis client: %v", err)
			}
		}
	}

	store, err := storage.NewFSBlobStore(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatalf("Failed to prepare upload directory: %v", err)
	}
	logger.Infof("Storing images in %s", cfg.UploadDir)
	return store, func() {}
}

func setupNotifier(cfg *config.Config, logger *logrus.Logger) domain.Notifier {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, order confirmations are logged only")
		return clients.NewLogNotifier(logger)
	}
	logger.Infof("Publishing order confirmations to Kafka topic %s", cfg.CheckoutTopic)
	return clients.NewKafkaNotifier(cfg.KafkaBrokers, cfg.CheckoutTopic, cfg.ServiceName, notifierBuffer, logger)
}
