package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eddiefleurent/options_wizard/internal/config"
	"github.com/eddiefleurent/options_wizard/internal/dashboard"
	"github.com/eddiefleurent/options_wizard/internal/marketdata"
	"github.com/eddiefleurent/options_wizard/internal/mock"
	"github.com/eddiefleurent/options_wizard/internal/recommender"
	"github.com/sirupsen/logrus"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.Environment.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	logger.Infof("Starting options wizard in %s mode", cfg.Environment.Mode)

	var provider marketdata.Provider
	if cfg.IsPaperTrading() {
		logger.Info("Paper mode: serving synthetic market data")
		provider = mock.NewFeed()
	} else {
		api := marketdata.NewDeribitAPI(cfg.Feed.Endpoint).WithTimeout(cfg.GetFeedTimeout())
		provider = marketdata.NewCircuitBreakerProvider(api)
	}

	engine := recommender.NewEngine(provider, logger)

	server := dashboard.NewServer(dashboard.Config{
		Port:      cfg.Server.Port,
		AuthToken: cfg.Server.AuthToken,
	}, provider, engine, cfg.AllowsCurrency, logger)

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatalf("Server error: %v", err)
		}
	case sig := <-sigChan:
		logger.Infof("Received %s, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Errorf("Shutdown error: %v", err)
		}
	}

	logger.Info("Wizard stopped")
}
