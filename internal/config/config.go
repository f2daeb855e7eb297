// Package config handles application configuration from environment
// variables and the optional dashboard settings file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultAlertsFeedURL = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/camsys%2Fall-alerts"

// Config holds all application configuration.
type Config struct {
	Port            string
	Env             string
	DataFile        string
	DashboardConfig string
	AlertsFeedURL   string
	CacheTTL        time.Duration
	HTTPTimeout     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "3000"),
		Env:             getEnv("ENV", "development"),
		DataFile:        getEnv("DATA_FILE", "data/mta-subway-hourly-ridership-dec-2024.csv"),
		DashboardConfig: getEnv("DASHBOARD_CONFIG", ""),
		AlertsFeedURL:   getEnv("ALERTS_FEED_URL", defaultAlertsFeedURL),
		CacheTTL:        getDurationEnv("CACHE_TTL_SECONDS", 300) * time.Second,
		HTTPTimeout:     getDurationEnv("HTTP_TIMEOUT_SECONDS", 10) * time.Second,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("DATA_FILE must point to the ridership CSV")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds)
		}
	}
	return time.Duration(defaultSeconds)
}
