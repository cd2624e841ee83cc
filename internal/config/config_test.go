package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so host state cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LATITUDE", "LONGITUDE", "LOCATION", "UNITS", "FORECAST_DAYS",
		"MET_OFFICE_API_KEY", "REFRESH_INTERVAL", "FEED_CACHE_TTL",
		"FEED_CACHE_SIZE", "HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT",
		"SHUTDOWN_TIMEOUT", "KAFKA_BROKERS", "KAFKA_TOPIC",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 51.5074, cfg.Latitude)
	assert.Equal(t, -0.1278, cfg.Longitude)
	assert.Equal(t, "London", cfg.Location)
	assert.Equal(t, "metric", cfg.Units)
	assert.Equal(t, 3, cfg.ForecastDays)
	assert.Empty(t, cfg.MetOfficeAPIKey)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 5*time.Minute, cfg.FeedCacheTTL)
	assert.Equal(t, 32, cfg.FeedCacheSize)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LATITUDE", "57.1497")
	t.Setenv("LONGITUDE", "-2.0943")
	t.Setenv("LOCATION", "Aberdeen")
	t.Setenv("UNITS", "imperial")
	t.Setenv("FORECAST_DAYS", "7")
	t.Setenv("MET_OFFICE_API_KEY", "secret")
	t.Setenv("REFRESH_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 57.1497, cfg.Latitude)
	assert.Equal(t, -2.0943, cfg.Longitude)
	assert.Equal(t, "Aberdeen", cfg.Location)
	assert.Equal(t, "imperial", cfg.Units)
	assert.Equal(t, 7, cfg.ForecastDays)
	assert.Equal(t, "secret", cfg.MetOfficeAPIKey)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
}

func TestLoad_KafkaBrokers(t *testing.T) {
	clearEnv(t)
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("KAFKA_TOPIC", "alerts")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "alerts", cfg.KafkaTopic)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"latitude out of range", "LATITUDE", "91"},
		{"longitude out of range", "LONGITUDE", "-181"},
		{"latitude not a number", "LATITUDE", "north"},
		{"unknown units", "UNITS", "kelvin"},
		{"forecast days too small", "FORECAST_DAYS", "0"},
		{"forecast days too large", "FORECAST_DAYS", "17"},
		{"refresh interval unparseable", "REFRESH_INTERVAL", "often"},
		{"refresh interval not positive", "REFRESH_INTERVAL", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
