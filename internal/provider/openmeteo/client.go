// Package openmeteo fetches current conditions and daily forecasts from the
// Open-Meteo forecast API and synthesizes warnings from forecast numerics
// when no explicit warning source is available for the location.
package openmeteo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
	"github.com/couchcryptid/weather-alerts-service/internal/fetch"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// alertForecastDays is how far ahead the synthesizer looks for warning-grade
// conditions, independent of the display forecast length.
const alertForecastDays = 4

// Client fetches from the Open-Meteo forecast endpoint.
type Client struct {
	fetcher fetch.Fetcher
	baseURL string
	logger  *slog.Logger
}

// NewClient creates an Open-Meteo client on top of a shared fetcher.
func NewClient(fetcher fetch.Fetcher, logger *slog.Logger) *Client {
	return &Client{
		fetcher: fetcher,
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// response mirrors the Open-Meteo JSON layout: a current block plus parallel
// daily arrays indexed by day offset.
type response struct {
	Current *currentBlock `json:"current"`
	Daily   *dailyBlock   `json:"daily"`
}

type currentBlock struct {
	Temperature   float64 `json:"temperature_2m"`
	FeelsLike     float64 `json:"apparent_temperature"`
	Humidity      int     `json:"relative_humidity_2m"`
	WeatherCode   int     `json:"weather_code"`
	WindSpeed     float64 `json:"wind_speed_10m"`
	WindDirection int     `json:"wind_direction_10m"`
	IsDay         int     `json:"is_day"`
}

type dailyBlock struct {
	Time          []string  `json:"time"`
	WeatherCode   []int     `json:"weather_code"`
	TempMax       []float64 `json:"temperature_2m_max"`
	TempMin       []float64 `json:"temperature_2m_min"`
	PrecipProbMax []int     `json:"precipitation_probability_max"`
	WindSpeedMax  []float64 `json:"wind_speed_10m_max"`
	WindGustsMax  []float64 `json:"wind_gusts_10m_max"`
	Sunrise       []string  `json:"sunrise"`
	Sunset        []string  `json:"sunset"`
}

// FetchForecast retrieves current conditions and the daily forecast.
// A failure here fails the whole cycle; alerts are fetched separately.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64, units string, days int) (*domain.CurrentConditions, []domain.ForecastDay, error) {
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f"+
		"&current=temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,wind_direction_10m,is_day"+
		"&daily=weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max,wind_gusts_10m_max,sunrise,sunset"+
		"&timezone=auto&forecast_days=%d%s",
		c.baseURL, lat, lon, days, unitParams(units))

	var resp response
	if err := c.fetchInto(ctx, url, &resp); err != nil {
		return nil, nil, err
	}

	forecast, err := normalizeForecast(resp.Daily)
	if err != nil {
		return nil, nil, err
	}
	return parseCurrent(resp.Current, resp.Daily), forecast, nil
}

// FetchAlerts synthesizes warnings from forecast numerics. Wind thresholds on
// this path are expressed in km/h (the provider's default wind unit).
func (c *Client) FetchAlerts(ctx context.Context, lat, lon float64) ([]domain.Alert, error) {
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f"+
		"&current=weather_code,wind_speed_10m,wind_gusts_10m"+
		"&daily=weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max,wind_gusts_10m_max"+
		"&timezone=auto&forecast_days=%d",
		c.baseURL, lat, lon, alertForecastDays)

	var resp response
	if err := c.fetchInto(ctx, url, &resp); err != nil {
		return nil, err
	}
	return synthesizeAlerts(resp.Daily), nil
}

func (c *Client) fetchInto(ctx context.Context, url string, v *response) error {
	body, err := c.fetcher.Fetch(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("open-meteo fetch: %w", err)
	}
	if err := body.Decode(v); err != nil {
		return fmt.Errorf("open-meteo decode: %w", err)
	}
	return nil
}

// unitParams returns the extra query parameters for non-metric callers.
// Metric is the provider default and needs none.
func unitParams(units string) string {
	if units == "imperial" {
		return "&temperature_unit=fahrenheit&wind_speed_unit=mph"
	}
	return ""
}
