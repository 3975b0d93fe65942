package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/config"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/errors/noop"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/adapters/errors/sentry"
	"github.com/wujiachen1111/ragWithAgent-sub001/internal/bootstrap"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/errors"
	"github.com/wujiachen1111/ragWithAgent-sub001/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	var tracker errors.Tracker = noop.New()
	if cfg.ErrorTracking.Enabled && cfg.ErrorTracking.SentryDSN != "" {
		t, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
		if err != nil {
			log.Warnf("Sentry init failed, error tracking disabled: %v", err)
		} else {
			tracker = t
		}
	}
	logger.SetErrorTracker(tracker)

	container, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- container.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case sig := <-quit:
		log.Infof("Received signal %s", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := container.Shutdown(ctx); err != nil {
		log.Errorf("Shutdown failed: %v", err)
	}
	_ = tracker.Flush(context.Background())
}
