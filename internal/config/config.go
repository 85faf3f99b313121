// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultMarketAPI = "https://web.pirateswap.com/inventory/Exchangerinventory"

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	DatabasePath     string
	LogLevel         string

	MarketAPIURL   string
	ScanInterval   time.Duration
	PagesToScan    int
	ResultsPerPage int
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/tracker.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	apiURL := os.Getenv("MARKET_API_URL")
	if apiURL == "" {
		apiURL = defaultMarketAPI
	}

	intervalSec, err := envInt("SCAN_INTERVAL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	pages, err := envInt("PAGES_TO_SCAN", 2)
	if err != nil {
		return nil, err
	}
	perPage, err := envInt("RESULTS_PER_PAGE", 50)
	if err != nil {
		return nil, err
	}

	return &Config{
		TelegramBotToken: token,
		DatabasePath:     dbPath,
		LogLevel:         logLevel,
		MarketAPIURL:     apiURL,
		ScanInterval:     time.Duration(intervalSec) * time.Second,
		PagesToScan:      pages,
		ResultsPerPage:   perPage,
	}, nil
}

func envInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}
