package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/api"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat, "server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tasks, backend, err := db.Open(ctx, cfg.StoreURI)
	if err != nil {
		logger.Fatal("connect store", "err", err)
	}
	defer tasks.Close()

	if err := tasks.EnsureTable(ctx); err != nil {
		logger.Fatal("ensure tasks table", "backend", backend, "err", err)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.New(tasks,
			api.WithLogger(logger),
			api.WithCORSOrigins(cfg.CORSOrigins),
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "backend", backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", "err", err)
			tasks.Close()
			os.Exit(1)
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
