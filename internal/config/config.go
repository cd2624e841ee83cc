package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Latitude     float64
	Longitude    float64
	Location     string
	Units        string // "metric" or "imperial"
	ForecastDays int

	// Optional regional provider credential; enables the structured
	// warnings fallback when the region feed fails.
	MetOfficeAPIKey string

	RefreshInterval time.Duration
	FeedCacheTTL    time.Duration
	FeedCacheSize   int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional Kafka sink for downstream consumers of the assembled report.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	lat, err := parseFloatEnv("LATITUDE", 51.5074)
	if err != nil {
		return nil, err
	}
	lon, err := parseFloatEnv("LONGITUDE", -0.1278)
	if err != nil {
		return nil, err
	}
	days, err := parseIntEnv("FORECAST_DAYS", 3)
	if err != nil {
		return nil, err
	}
	refresh, err := parseDurationEnv("REFRESH_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDurationEnv("FEED_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseIntEnv("FEED_CACHE_SIZE", 32)
	if err != nil {
		return nil, err
	}
	shutdown, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		Latitude:        lat,
		Longitude:       lon,
		Location:        envOrDefault("LOCATION", "London"),
		Units:           envOrDefault("UNITS", "metric"),
		ForecastDays:    days,
		MetOfficeAPIKey: os.Getenv("MET_OFFICE_API_KEY"),
		RefreshInterval: refresh,
		FeedCacheTTL:    cacheTTL,
		FeedCacheSize:   cacheSize,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdown,
		KafkaBrokers:    brokers,
		KafkaTopic:      envOrDefault("KAFKA_TOPIC", "weather-reports"),
		KafkaEnabled:    len(brokers) > 0,
	}

	if cfg.Latitude < -90 || cfg.Latitude > 90 {
		return nil, errors.New("LATITUDE must be between -90 and 90")
	}
	if cfg.Longitude < -180 || cfg.Longitude > 180 {
		return nil, errors.New("LONGITUDE must be between -180 and 180")
	}
	if cfg.Units != "metric" && cfg.Units != "imperial" {
		return nil, fmt.Errorf("UNITS must be metric or imperial, got %q", cfg.Units)
	}
	if cfg.ForecastDays < 1 || cfg.ForecastDays > 16 {
		return nil, errors.New("FORECAST_DAYS must be between 1 and 16")
	}
	if cfg.RefreshInterval <= 0 {
		return nil, errors.New("REFRESH_INTERVAL must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseIntEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		s = fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
