package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"loanpredict/config"
	"loanpredict/db"
	qhttp "loanpredict/http"
	"loanpredict/logging"
	"loanpredict/ml"
	"loanpredict/predict"
)

func main() {
	// 1. Load config
	cfg, err := config.Load(config.Locate())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Open model registry when configured
	var store ml.ArtifactStore
	if cfg.Registry.Path != "" {
		registry, err := db.OpenRegistry(cfg.Registry.Path)
		if err != nil {
			logger.Fatal("failed to open model registry", zap.String("path", cfg.Registry.Path), zap.Error(err))
		}
		defer registry.Close()
		store = registry
		logger.Info("model registry opened", zap.String("path", cfg.Registry.Path))
	}

	// 3. Load the model; any failure aborts startup
	source, err := ml.ParseSource(cfg.Model.Source, store)
	if err != nil {
		logger.Fatal("invalid model source", zap.Error(err))
	}
	service := predict.NewService(
		predict.WithLogger(logger),
		predict.WithTimeout(cfg.Model.PredictTimeout),
		predict.WithCacheSize(cfg.Model.CacheSize),
	)
	if _, err := service.Load(ctx, source); err != nil {
		logger.Fatal("failed to load model", zap.Error(err))
	}

	if fileSource, ok := source.(ml.FileSource); ok && cfg.Model.Watch {
		if err := ml.WatchArtifact(ctx, fileSource.Path, logger, nil); err != nil {
			logger.Warn("artifact watcher disabled", zap.Error(err))
		}
	}

	// 4. Start HTTP server
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		AllowedOrigins: cfg.Http.AllowedOrigins,
		MaxBodyBytes:   cfg.Http.MaxBodyBytes,
	}, service, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 5. Handle graceful shutdown
	<-ctx.Done()
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("exiting")
}
