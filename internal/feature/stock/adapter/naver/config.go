// Package naver provides the source adapter for the Naver mobile stock
// gateway: market indices, per-item quotes, daily chart closes, and
// autocomplete search.
package naver

import (
	"os"
	"time"
)

// Config holds configuration for the Naver gateway client.
type Config struct {
	BaseURL       string        // Mobile gateway (indices, item detail, charts)
	SearchBaseURL string        // Front API gateway (autocomplete search)
	Timeout       time.Duration // HTTP request timeout
}

// LoadConfig loads the Naver gateway configuration from environment
// variables, falling back to the public endpoints.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:       os.Getenv("NAVER_M_BASE_URL"),
		SearchBaseURL: os.Getenv("NAVER_STOCK_BASE_URL"),
		Timeout:       10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://m.stock.naver.com/api"
	}
	if cfg.SearchBaseURL == "" {
		cfg.SearchBaseURL = "https://stock.naver.com/api/securityFe/front-api"
	}
	return cfg
}
