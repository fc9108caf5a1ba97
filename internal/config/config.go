package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port string
	Env  string // "development", "production"

	// Database
	DatabaseURL string

	// Spending dataset
	DatasetPath string
	// AnalysisMonth is the month the statistics window runs up to. The
	// merged dataset covers a single year, so a month is enough to pin
	// the window.
	AnalysisMonth int

	// Receipt registry
	ReceiptAPIURL      string
	ReceiptTimeout     time.Duration
	ReceiptConcurrency int

	// Dataset refresh
	RefreshEnabled  bool
	RefreshSchedule string // Cron expression (e.g., "0 4 * * *" for 4am daily)

	// Stocks
	AlphaVantageURL    string
	AlphaVantageAPIKey string
	StockTimeout       time.Duration

	// CORS
	AllowedOrigins []string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/spendsight?sslmode=disable"),

		DatasetPath:   getEnv("DATASET_PATH", "data/merged_spending_data.csv"),
		AnalysisMonth: getIntEnv("ANALYSIS_MONTH", 10),

		ReceiptAPIURL:      getEnv("RECEIPT_API_URL", "https://ekasa.financnasprava.sk/mdu/api/v1/opd"),
		ReceiptTimeout:     getDurationEnv("RECEIPT_TIMEOUT", 10*time.Second),
		ReceiptConcurrency: getIntEnv("RECEIPT_CONCURRENCY", 5),

		RefreshEnabled:  getBoolEnv("DATASET_REFRESH_ENABLED", true),
		RefreshSchedule: getEnv("DATASET_REFRESH_SCHEDULE", "0 4 * * *"), // Default: daily at 4am

		AlphaVantageURL:    getEnv("ALPHAVANTAGE_URL", "https://www.alphavantage.co"),
		AlphaVantageAPIKey: os.Getenv("ALPHAVANTAGE_API_KEY"),
		StockTimeout:       getDurationEnv("STOCK_TIMEOUT", 15*time.Second),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
