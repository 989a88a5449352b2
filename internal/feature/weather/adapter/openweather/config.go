// Package openweather provides the source adapter for the OpenWeatherMap
// API: current weather, the 5-day/3-hour forecast, and geocoding search.
package openweather

import (
	"os"
	"time"
)

// Config holds configuration for the OpenWeatherMap client. The API key
// is mandatory; its absence is a configuration error surfaced at
// construction, never a runtime fetch error.
type Config struct {
	APIKey     string
	BaseURL    string // Data API (current weather, forecast)
	GeoBaseURL string // Geocoding API
	Timeout    time.Duration
}

// LoadConfig loads the OpenWeatherMap configuration from environment
// variables, falling back to the public endpoints.
func LoadConfig() Config {
	cfg := Config{
		APIKey:     os.Getenv("OPENWEATHER_API_KEY"),
		BaseURL:    os.Getenv("OPENWEATHER_BASE_URL"),
		GeoBaseURL: os.Getenv("OPENWEATHER_GEO_BASE_URL"),
		Timeout:    10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if cfg.GeoBaseURL == "" {
		cfg.GeoBaseURL = "https://api.openweathermap.org/geo/1.0"
	}
	return cfg
}
