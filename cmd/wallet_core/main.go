package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"wallet_core/internal/app/service"
	"wallet_core/internal/client"
	"wallet_core/internal/infrastructure/assetloader"
	"wallet_core/internal/infrastructure/auth"
	"wallet_core/internal/infrastructure/configloader"
	"wallet_core/internal/infrastructure/restapi"
	"wallet_core/internal/pkg/logger"
	"wallet_core/internal/pkg/utils"
	"wallet_core/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	// logrus handles the config-driven level and optional log file; zap is
	// what the services and clients actually log through.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	slogHandler := zapslog.NewHandler(zapLogger.Core(), &zapslog.HandlerOptions{})
	logger.SetLogger(slog.New(slogHandler))

	// Load configuration
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetOutput(file)
		} else {
			log.Infof("Failed to log to file, using default stdout: %v", err)
		}
	}

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	// Initialize Prometheus metrics
	metrics.MustRegisterMetrics()

	appLogger := logger.NewSlogAdapter()

	// Load the asset catalog
	catalog, err := assetloader.Load(cfg.Catalog.Path, appLogger)
	if err != nil {
		zapLogger.Fatal("Failed to load asset catalog", zap.Error(err))
	}

	// Initialize CoinGecko client
	requestTimeout := time.Duration(cfg.CoinGecko.RequestTimeoutMillis) * time.Millisecond
	marketClient := client.NewCoinGeckoClient(
		cfg.CoinGecko.BaseURL,
		cfg.CoinGecko.APIKey,
		cfg.CoinGecko.VsCurrency,
		requestTimeout,
		cfg.CoinGecko.RequestsPerSecond,
		zapLogger,
	)
	zapLogger.Info("CoinGecko client initialized", zap.String("baseURL", cfg.CoinGecko.BaseURL))

	// Initialize the price sync engine and start polling
	pollInterval := time.Duration(cfg.PriceSync.PollIntervalMillis) * time.Millisecond
	priceService := service.NewPriceSyncService(marketClient, catalog, appLogger, pollInterval, requestTimeout)
	priceService.Start(context.Background())
	defer priceService.Stop()
	zapLogger.Info("Price sync engine started", zap.Duration("pollInterval", pollInterval))

	// Chart series fetcher
	chartService := service.NewChartService(marketClient, appLogger, requestTimeout,
		time.Duration(cfg.Chart.CacheTTLSeconds)*time.Second)

	// Swap session with the device credential boundary
	authenticator := auth.NewDeviceAuthenticator(appLogger, true)
	swapSession, err := service.NewSwapSession(marketClient, catalog, authenticator, appLogger, "")
	if err != nil {
		zapLogger.Fatal("Failed to initialize swap session", zap.Error(err))
	}

	// Initialize Gin router
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(utils.ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	walletHandler := restapi.NewWalletHandler(catalog, priceService, chartService, swapSession, appLogger)
	restapi.RegisterWalletRoutes(router, walletHandler)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	zapLogger.Info("Prometheus metrics endpoint enabled", zap.String("path", "/metrics"))

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	priceService.Stop()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
