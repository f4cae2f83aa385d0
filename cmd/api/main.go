package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/trackpath/visit-analytics-service/docs"
	"github.com/trackpath/visit-analytics-service/internal/cache"
	"github.com/trackpath/visit-analytics-service/internal/config"
	"github.com/trackpath/visit-analytics-service/internal/handler"
	"github.com/trackpath/visit-analytics-service/internal/logger"
	"github.com/trackpath/visit-analytics-service/internal/metadata/postgres"
	"github.com/trackpath/visit-analytics-service/internal/repository/clickhouse"
	"github.com/trackpath/visit-analytics-service/internal/service"
	"github.com/trackpath/visit-analytics-service/internal/session"
)

// @title Visit Analytics Service API
// @version 1.0
// @description API for funnel, journey, and session analytics over tracked sites
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	// Initialize ClickHouse client and event store
	clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func(clickhouseClient *clickhouse.Client) {
		if err := clickhouseClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}(clickhouseClient)

	eventStore := clickhouse.NewRepository(clickhouseClient, log)

	// Initialize metadata store
	funnelStore, err := postgres.NewStore(ctx, &cfg.Postgres, log)
	if err != nil {
		log.Fatal("Failed to create metadata store", zap.Error(err))
	}
	defer func() {
		if err := funnelStore.Close(); err != nil {
			log.Error("Failed to close metadata store", zap.Error(err))
		}
	}()

	// Initialize session reconciler and sweeper
	reconciler := session.NewReconciler(eventStore, log)
	sweeper := session.NewSweeper(eventStore, session.SweeperConfig{
		Interval: time.Duration(cfg.Sweeper.IntervalSec) * time.Second,
	}, log)

	// Initialize result cache
	resultCache := cache.NewMemory(time.Minute)
	ttls := service.CacheTTLs{
		FunnelStats:  time.Duration(cfg.Cache.FunnelStatsTTLSec) * time.Second,
		JourneyGraph: time.Duration(cfg.Cache.JourneyGraphTTLSec) * time.Second,
		TopPages:     time.Duration(cfg.Cache.TopPagesTTLSec) * time.Second,
		LiveVisitors: time.Duration(cfg.Cache.LiveVisitorsTTLSec) * time.Second,
	}

	// Initialize analytics service
	analyticsService := service.NewAnalyticsService(eventStore, funnelStore, reconciler, sweeper, resultCache, ttls, log)

	// Initialize handler
	h := handler.NewHandler(analyticsService, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
