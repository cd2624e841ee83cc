package openmeteo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
	"github.com/couchcryptid/weather-alerts-service/internal/fetch"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	c := NewClient(fetch.NewClient(nil, testLogger()), testLogger())
	c.baseURL = baseURL
	return c
}

func serveJSON(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(payload))
		require.NoError(t, err)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const forecastPayload = `{
	"current": {
		"temperature_2m": 8.4,
		"relative_humidity_2m": 81,
		"apparent_temperature": 6.1,
		"weather_code": 61,
		"wind_speed_10m": 14.2,
		"wind_direction_10m": 230,
		"is_day": 1
	},
	"daily": {
		"time": ["2026-01-02", "2026-01-03", "2026-01-04"],
		"weather_code": [61, 3, 71],
		"temperature_2m_max": [9.1, 7.4, 2.0],
		"temperature_2m_min": [4.2, 1.1, -1.5],
		"precipitation_probability_max": [80, 20, 60],
		"wind_speed_10m_max": [30, 25, 40],
		"wind_gusts_10m_max": [55, 40, 70],
		"sunrise": ["2026-01-02T08:06"],
		"sunset": ["2026-01-02T16:01"]
	}
}`

func TestFetchForecast(t *testing.T) {
	srv := serveJSON(t, forecastPayload)
	c := testClient(srv.URL)

	current, forecast, err := c.FetchForecast(context.Background(), 51.5074, -0.1278, "metric", 3)
	require.NoError(t, err)

	require.NotNil(t, current)
	assert.Equal(t, 8.4, current.Temperature)
	assert.Equal(t, 6.1, current.FeelsLike)
	assert.Equal(t, 81, current.Humidity)
	assert.Equal(t, "Light rain", current.Condition)
	assert.True(t, current.IsDay)
	assert.Equal(t, "2026-01-02T08:06", current.Sunrise)
	assert.Equal(t, "2026-01-02T16:01", current.Sunset)

	require.Len(t, forecast, 3)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local), forecast[0].Date)
	assert.Equal(t, 61, forecast[0].ConditionCode)
	assert.Equal(t, "Light rain", forecast[0].Condition)
	assert.Equal(t, 9.1, forecast[0].TempMax)
	assert.Equal(t, 4.2, forecast[0].TempMin)
	assert.Equal(t, 80, forecast[0].PrecipitationChance)
	assert.False(t, forecast[0].HasWarning)
	assert.Equal(t, "Overcast", forecast[1].Condition)
	assert.Equal(t, "Light snow", forecast[2].Condition)
}

func TestFetchForecast_UnknownCode(t *testing.T) {
	srv := serveJSON(t, `{"daily":{"time":["2026-01-02"],"weather_code":[42]}}`)
	c := testClient(srv.URL)

	_, forecast, err := c.FetchForecast(context.Background(), 51.5, -0.1, "metric", 1)
	require.NoError(t, err)
	require.Len(t, forecast, 1)
	assert.Equal(t, "Unknown", forecast[0].Condition)
	// Missing precipitation array defaults to zero, missing current to nil.
	assert.Equal(t, 0, forecast[0].PrecipitationChance)
}

func TestFetchForecast_MissingDates(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"no daily block", `{"current":{"temperature_2m":5}}`},
		{"empty time array", `{"daily":{"time":[]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, tt.payload)
			c := testClient(srv.URL)

			_, _, err := c.FetchForecast(context.Background(), 51.5, -0.1, "metric", 3)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedPayload))
		})
	}
}

func TestFetchForecast_NetworkError(t *testing.T) {
	srv := serveJSON(t, "{}")
	url := srv.URL
	srv.Close()
	c := testClient(url)

	_, _, err := c.FetchForecast(context.Background(), 51.5, -0.1, "metric", 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
}

func TestFetchAlerts_Synthesis(t *testing.T) {
	tests := []struct {
		name     string
		daily    string
		event    string
		severity domain.Severity
	}{
		{
			"thunderstorm",
			`{"time":["2026-01-02"],"weather_code":[95]}`,
			"Thunderstorm Warning", domain.SeverityYellow,
		},
		{
			"thunderstorm with hail",
			`{"time":["2026-01-02"],"weather_code":[96]}`,
			"Thunderstorm Warning", domain.SeverityAmber,
		},
		{
			"heavy snow",
			`{"time":["2026-01-02"],"weather_code":[75]}`,
			"Snow Warning", domain.SeverityAmber,
		},
		{
			"heavy rain",
			`{"time":["2026-01-02"],"weather_code":[65]}`,
			"Heavy Rain Warning", domain.SeverityYellow,
		},
		{
			"strong wind",
			`{"time":["2026-01-02"],"weather_code":[3],"wind_speed_10m_max":[75]}`,
			"Wind Warning", domain.SeverityYellow,
		},
		{
			"violent wind gusts",
			`{"time":["2026-01-02"],"weather_code":[3],"wind_speed_10m_max":[75],"wind_gusts_10m_max":[125]}`,
			"Wind Warning", domain.SeverityAmber,
		},
		{
			"dense fog",
			`{"time":["2026-01-02"],"weather_code":[48]}`,
			"Fog Warning", domain.SeverityYellow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, `{"daily":`+tt.daily+`}`)
			c := testClient(srv.URL)

			alerts, err := c.FetchAlerts(context.Background(), 51.5, -0.1)
			require.NoError(t, err)
			require.Len(t, alerts, 1)

			a := alerts[0]
			assert.Equal(t, tt.event, a.Event)
			assert.Equal(t, tt.severity, a.Severity)
			assert.Equal(t, domain.SourceForecastModel, a.Source)
			assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local), a.Start)
			assert.Equal(t, time.Date(2026, 1, 2, 23, 59, 59, 0, time.Local), a.End)
			assert.NotEmpty(t, a.Description)
		})
	}
}

func TestFetchAlerts_QuietWeather(t *testing.T) {
	srv := serveJSON(t, `{"daily":{"time":["2026-01-02","2026-01-03"],"weather_code":[1,2],"wind_speed_10m_max":[20,30],"wind_gusts_10m_max":[35,50]}}`)
	c := testClient(srv.URL)

	alerts, err := c.FetchAlerts(context.Background(), 51.5, -0.1)
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestFetchAlerts_NoDailyBlock(t *testing.T) {
	srv := serveJSON(t, `{}`)
	c := testClient(srv.URL)

	alerts, err := c.FetchAlerts(context.Background(), 51.5, -0.1)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
