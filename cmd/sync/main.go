package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ebartels/banksync/internal/config"
	"github.com/ebartels/banksync/internal/database"
	"github.com/ebartels/banksync/internal/history"
	"github.com/ebartels/banksync/internal/pipeline"
	"github.com/ebartels/banksync/internal/store"
	"github.com/ebartels/banksync/internal/upstream/creditmutuel"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	vendor, err := creditmutuel.New(creditmutuel.Config{
		BaseURL:  cfg.Vendor.BaseURL,
		Username: cfg.Vendor.User,
		Password: cfg.Vendor.Password,
		Timeout:  cfg.Vendor.Timeout,
	})
	if err != nil {
		slog.Error("failed to build vendor client", "error", err)
		os.Exit(1)
	}

	st := store.New(db)

	p := pipeline.New(
		vendor,
		st,
		history.NewService(st),
		pipeline.WithConcurrency(cfg.Sync.Concurrency),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting sync", "vendor", "creditmutuel")

	result, err := p.Run(ctx)
	if err != nil {
		slog.Error("sync failed", "error", err)
		os.Exit(1)
	}

	slog.Info("sync finished",
		"accounts", result.Accounts,
		"transactions", result.Transactions,
		"histories", result.Histories,
	)
}
