package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"skin_tracker/internal/bot"
	"skin_tracker/internal/config"
	"skin_tracker/internal/fetcher"
	"skin_tracker/internal/scheduler"
	"skin_tracker/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	b, err := bot.New(cfg.TelegramBotToken, store, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	f := fetcher.New(http.DefaultClient, fetcher.Options{
		BaseURL:        cfg.MarketAPIURL,
		PagesToScan:    cfg.PagesToScan,
		ResultsPerPage: cfg.ResultsPerPage,
	}, log)

	sched := scheduler.New(store, f, b, log)
	sched.SetTickInterval(cfg.ScanInterval)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting tracker", "api", cfg.MarketAPIURL, "interval", cfg.ScanInterval)

	go sched.Run(ctx)

	b.Run(ctx)

	log.Info("tracker stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
