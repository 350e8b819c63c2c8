// Command solvestatsd serves the solved-count aggregation API over HTTP.
//
// Configuration comes from the environment (see internal/config). A .env
// file is honored outside production.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/codeGROOVE-dev/solvestats/internal/config"
	"github.com/codeGROOVE-dev/solvestats/internal/server"
	"github.com/codeGROOVE-dev/solvestats/pkg/solvestats"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	agg, err := solvestats.New(context.Background(),
		solvestats.WithLogger(logger),
		solvestats.WithTimeout(cfg.FetchTimeout),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, agg, logger)
	logger.Info("starting solvestatsd", "addr", cfg.Addr(), "env", cfg.Env)
	if err := srv.Listen(ctx, cfg.Addr()); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
