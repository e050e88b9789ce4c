package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/ebartels/banksync/internal/config"
	"github.com/ebartels/banksync/internal/database"
	"github.com/ebartels/banksync/internal/history"
	banksyncHttp "github.com/ebartels/banksync/internal/http"
	accountHandler "github.com/ebartels/banksync/internal/http/account"
	syncHandler "github.com/ebartels/banksync/internal/http/syncrun"
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

	syncPipeline := pipeline.New(
		vendor,
		st,
		history.NewService(st),
		pipeline.WithConcurrency(cfg.Sync.Concurrency),
	)

	var (
		accountsH = accountHandler.NewHandler(st)
		syncH     = syncHandler.NewHandler(syncPipeline)
	)

	router := banksyncHttp.New(accountsH, syncH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
