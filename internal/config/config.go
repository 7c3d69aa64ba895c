package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Feeds   FeedsConfig
	Expiry  ExpiryConfig
	DB      DatabaseConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type FeedsConfig struct {
	SeismicEnabled      bool
	SeismicURL          string
	GlobalEventsEnabled bool
	GlobalEventsURL     string
	SyncInterval        time.Duration
	FetchTimeout        time.Duration
	Country             string
}

type ExpiryConfig struct {
	SweepInterval   time.Duration
	SeismicTTL      time.Duration
	GlobalEventsTTL time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Feeds: FeedsConfig{
			SeismicEnabled:      getEnvBool("SEISMIC_ENABLED", true),
			SeismicURL:          getEnv("SEISMIC_URL", "https://earthquake.usgs.gov/fdsnws/event/1/query"),
			GlobalEventsEnabled: getEnvBool("GLOBAL_EVENTS_ENABLED", true),
			GlobalEventsURL:     getEnv("GLOBAL_EVENTS_URL", "https://eonet.gsfc.nasa.gov/api/v3/events"),
			SyncInterval:        getEnvDuration("SYNC_INTERVAL", 30*time.Minute),
			FetchTimeout:        getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
			Country:             getEnv("TARGET_COUNTRY", "India"),
		},
		Expiry: ExpiryConfig{
			SweepInterval:   getEnvDuration("EXPIRY_SWEEP_INTERVAL", time.Hour),
			SeismicTTL:      getEnvDuration("SEISMIC_TTL", 7*24*time.Hour),
			GlobalEventsTTL: getEnvDuration("GLOBAL_EVENTS_TTL", 24*time.Hour),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/zone-tracker.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Feeds.SyncInterval < time.Minute {
		return fmt.Errorf("sync interval must be at least 1 minute")
	}
	if c.Expiry.SweepInterval < time.Minute {
		return fmt.Errorf("expiry sweep interval must be at least 1 minute")
	}
	if c.Feeds.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.Expiry.SeismicTTL <= 0 || c.Expiry.GlobalEventsTTL <= 0 {
		return fmt.Errorf("retention windows must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
