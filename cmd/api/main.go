package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/izilearn/izicoin/internal/config"
	"github.com/izilearn/izicoin/internal/infra"
	"github.com/izilearn/izicoin/internal/ledger"
	"github.com/izilearn/izicoin/internal/logging"
	"github.com/izilearn/izicoin/internal/notify"
	"github.com/izilearn/izicoin/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, stopBus := context.WithCancel(context.Background())
	defer stopBus()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		if !config.IsDev(cfg.Env) {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		logger.Warn("running without postgres, using in-memory ledger", "error", err)
		db = nil
	}
	if db != nil {
		defer db.Close()
		if err := ledger.Migrate(ctx, db); err != nil {
			logger.Error("apply ledger schema", "error", err)
			os.Exit(1)
		}
	}

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		if !config.IsDev(cfg.Env) {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		logger.Warn("running without redis", "error", err)
		cache = nil
	}
	if cache != nil {
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	}

	var bus notify.Bus
	if cache != nil {
		redisBus := notify.NewRedisBus(cache, logger)
		go func() {
			if err := redisBus.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("change feed stopped", "error", err)
			}
		}()
		bus = redisBus
	} else {
		bus = notify.NewMemoryBus()
	}

	srv, err := server.New(cfg, db, cache, bus, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
