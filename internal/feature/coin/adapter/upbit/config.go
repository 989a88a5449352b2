// Package upbit provides the source adapter for the Upbit public API:
// batch tickers, the full market list, daily candles, and market search.
package upbit

import (
	"os"
	"time"
)

// Config holds configuration for the Upbit API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// LoadConfig loads the Upbit configuration from environment variables,
// falling back to the public endpoint.
func LoadConfig() Config {
	cfg := Config{
		BaseURL: os.Getenv("UPBIT_BASE_URL"),
		Timeout: 10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.upbit.com/v1"
	}
	return cfg
}
