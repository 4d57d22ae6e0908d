package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"burnoutcheck/config"
	qhttp "burnoutcheck/http"
	"burnoutcheck/logging"
	"burnoutcheck/ml"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 2. Load model; nothing is served without one
	store := ml.NewStore(cfg.Model.Path, logger)
	if err := store.Load(); err != nil {
		logger.Fatal("Error loading model", zap.String("path", store.Path()), zap.Error(err))
	}

	predictor, err := ml.NewPredictor(store, cfg.Cache.Size, logger)
	if err != nil {
		logger.Fatal("Failed to create predictor", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Model.Watch {
		go func() {
			if err := store.Watch(ctx); err != nil {
				logger.Error("model watcher stopped", zap.Error(err))
			}
		}()
	}

	// 3. Start HTTP server
	serverConfig := qhttp.ServerConfig{
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		AllowedOrigins: cfg.Http.AllowedOrigins,
		MaxBodyBytes:   cfg.Http.MaxBodyBytes,
	}
	handlers := qhttp.NewHandlers(predictor, serverConfig, logger)
	server := qhttp.NewServer(serverConfig, handlers, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	cancel()

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("exiting")
}
