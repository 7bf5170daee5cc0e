package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/FairForge/lakeguard/internal/anomaly"
	"github.com/FairForge/lakeguard/internal/api"
	"github.com/FairForge/lakeguard/internal/config"
	"github.com/FairForge/lakeguard/internal/database"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(os.Getenv("LAKEGUARD_CONFIG"))
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	warehouse, err := database.NewWarehouse(database.Config{
		Host:     cfg.Warehouse.Host,
		Port:     cfg.Warehouse.Port,
		Database: cfg.Warehouse.Database,
		User:     cfg.Warehouse.User,
		Password: cfg.Warehouse.Password,
		SSLMode:  cfg.Warehouse.SSLMode,
	}, cfg.Query.Timeout, logger)
	if err != nil {
		logger.Fatal("failed to connect to warehouse", zap.Error(err))
	}
	defer func() { _ = warehouse.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := warehouse.Ping(ctx); err != nil {
		logger.Warn("warehouse not reachable at startup", zap.Error(err))
	}
	cancel()

	detector := anomaly.NewDetector(warehouse, logger)
	server := api.NewServer(cfg, logger, warehouse, detector)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
		os.Exit(0)
	}()

	if err := server.Start(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
