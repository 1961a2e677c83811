package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/config"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/delivery/koombiyo"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/middleware"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/broker"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/cache"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/postgres"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/search"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/uploader"

	catH "github.com/janithpag/reztobelle-admin-web-sub000/internal/category/handler"
	catRepoPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/category/repository"
	catUCPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/category/usecase"

	invH "github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory/handler"
	invRepoPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory/repository"
	invUCPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory/usecase"

	prodH "github.com/janithpag/reztobelle-admin-web-sub000/internal/product/handler"
	prodRepoPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/product/repository"
	prodUCPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/product/usecase"

	orderH "github.com/janithpag/reztobelle-admin-web-sub000/internal/order/handler"
	orderListenerPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/order/listener"
	orderRepoPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/order/repository"
	orderUCPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/order/usecase"

	delivH "github.com/janithpag/reztobelle-admin-web-sub000/internal/delivery/handler"
	delivRepoPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/delivery/repository"
	delivUCPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/delivery/usecase"

	reportH "github.com/janithpag/reztobelle-admin-web-sub000/internal/report/handler"
	reportRepoPkg "github.com/janithpag/reztobelle-admin-web-sub000/internal/report/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	logCfg := &logger.Config{
		IsDevelopment:     cfg.Server.AppEnv == "dev",
		Level:             cfg.Logger.Level,
		Encoding:          cfg.Logger.Encoding,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logCfg)
	defer appLogger.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to postgres", zap.String("db_name", cfg.Postgres.DBName))

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("could not connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("kafka consumer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("could not connect to elasticsearch, search falls back to sql", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("connected to elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	var imageUploader *uploader.Uploader
	if cfg.Cloudinary.URL != "" {
		imageUploader, err = uploader.New(cfg.Cloudinary.URL)
		if err != nil {
			appLogger.Warn("could not initialize cloudinary, image uploads disabled", zap.Error(err))
		}
	}

	courier := koombiyo.NewClient(&koombiyo.Config{
		BaseURL:        cfg.Koombiyo.BaseURL,
		APIKey:         cfg.Koombiyo.APIKey,
		TimeoutSeconds: cfg.Koombiyo.TimeoutSeconds,
	})

	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	delivRepo := delivRepoPkg.NewPGRepository(db)
	reportRepo := reportRepoPkg.NewPGRepository(db)

	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, esClient, imageUploader, cfg.Cloudinary.Folder, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, prodRepo, invUC, appLogger)
	delivUC := delivUCPkg.NewDeliveryUseCase(delivRepo, orderUC, courier, appLogger)

	orderListener := orderListenerPkg.NewOrderListener(kafkaConsumer, redisClient, orderUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go orderListener.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1", middleware.AuthJWT(cfg.JWT.SecretKey))
	catH.NewCategoryHandler(catUC, appLogger).Register(api)
	prodH.NewProductHandler(prodUC, appLogger).Register(api)
	invH.NewInventoryHandler(invUC, appLogger).Register(api)
	orderH.NewOrderHandler(orderUC, appLogger).Register(api)
	delivH.NewDeliveryHandler(delivUC, appLogger).Register(api)
	reportH.NewReportHandler(reportRepo, invUC, appLogger).Register(api)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	go func() {
		if err := e.Start(port); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("http server stopped", zap.Error(err))
		}
	}()
	appLogger.Info("http server started", zap.String("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
