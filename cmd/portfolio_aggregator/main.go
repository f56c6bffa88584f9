package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"portfolio_aggregator/internal/cache"
	"portfolio_aggregator/internal/client"
	"portfolio_aggregator/internal/config"
	"portfolio_aggregator/internal/metrics"
	"portfolio_aggregator/internal/pkg/utils"
	"portfolio_aggregator/internal/restapi"
	"portfolio_aggregator/internal/service"
)

func main() {
	// Bootstrap logging before the config (and therefore the zap setup) is
	// available.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err == nil {
		log.Info("Loaded environment from .env file")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Bridge the default slog logger onto zap so library logging lands in
	// the same stream.
	slog.SetDefault(utils.NewSlogBridge(zapLogger))

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
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

	metrics.MustRegisterMetrics()

	lookupClient := client.NewTokenLookupClient(
		cfg.TokenLookup.BaseURL,
		time.Duration(cfg.TokenLookup.RequestTimeoutMillis)*time.Millisecond,
		cfg.TokenLookup.RateLimit,
		cfg.TokenLookup.BurstLimit,
		zapLogger,
	)
	balanceClient := client.NewBalanceClient(
		cfg.BalanceProvider.BaseURL,
		cfg.BalanceProvider.ApiKey,
		time.Duration(cfg.BalanceProvider.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	priceClient := client.NewPriceClient(
		cfg.PriceService.BaseURL,
		time.Duration(cfg.PriceService.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	zapLogger.Info("Outbound clients initialized")

	metadataCache := cache.NewTokenMetadataCache()
	metadataSvc := service.NewTokenMetadataService(
		lookupClient,
		metadataCache,
		cfg.MetadataService.MaxConcurrentLookups,
		zapLogger,
	)
	portfolioSvc := service.NewPortfolioService(
		balanceClient,
		metadataSvc,
		priceClient,
		cfg.MetadataService.MaxConcurrentLookups,
		zapLogger,
	)
	zapLogger.Info("Services initialized")

	portfolioHandler := restapi.NewPortfolioHandler(portfolioSvc, zapLogger)
	router := restapi.SetupRouter(portfolioHandler, zapLogger)

	// Pprof endpoints, for diagnosing performance issues. Protect these in
	// production deployments.
	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	}

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
