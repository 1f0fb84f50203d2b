package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"albion-flipper/internal/logger"
)

const (
	DefaultMarketAPI = "https://albion-profit-calculator.com/api"
	DefaultDataAPI   = "https://europe.albion-online-data.com/api/v2"
	DefaultItemsURL  = "https://raw.githubusercontent.com/ao-data/ao-bin-dumps/master/formatted/items.json"
)

// Env holds process-level settings read from the environment (and an optional .env file).
type Env struct {
	Port       int
	DBPath     string
	MarketAPI  string
	DataAPI    string
	ServerID   string
	Locale     string
	ItemsPath  string
	ItemsURL   string
	RatePerSec float64
}

// LoadEnv reads .env (if present) and the process environment.
func LoadEnv() *Env {
	if err := godotenv.Load(); err != nil {
		logger.Info("Config", "No .env file found, using environment and defaults")
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &Env{
		Port:       getEnvInt("PORT", 13371),
		DBPath:     getEnv("ALBION_DB_PATH", filepath.Join(wd, "flipper.db")),
		MarketAPI:  getEnv("ALBION_MARKET_API", DefaultMarketAPI),
		DataAPI:    getEnv("ALBION_DATA_API", DefaultDataAPI),
		ServerID:   getEnv("ALBION_SERVER_ID", "aod_europe"),
		Locale:     getEnv("ALBION_LOCALE", "RU-RU"),
		ItemsPath:  getEnv("ALBION_ITEMS_PATH", filepath.Join(wd, "data", "items.json")),
		ItemsURL:   getEnv("ALBION_ITEMS_URL", DefaultItemsURL),
		RatePerSec: getEnvFloat("ALBION_RATE_PER_SEC", 5),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logger.Warn("Config", "Invalid "+key+"="+v+", using default")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
		logger.Warn("Config", "Invalid "+key+"="+v+", using default")
	}
	return fallback
}
