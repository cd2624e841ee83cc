// Package metoffice fetches site-specific daily data from the Met Office
// DataHub API. Payloads carry either explicit warning objects or, more
// commonly, per-day probability fields from which warnings are synthesized.
package metoffice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-alerts-service/internal/fetch"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
)

const defaultBaseURL = "https://data.hub.api.metoffice.gov.uk/sitespecific/v0/point/daily"

// Client fetches warnings from the Met Office site-specific endpoint.
// Requires a caller-supplied API key, passed through as the apikey header.
type Client struct {
	fetcher fetch.Fetcher
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a Met Office client on top of a shared fetcher.
func NewClient(fetcher fetch.Fetcher, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		fetcher: fetcher,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// DataHub response types. Warnings and time series both hang off feature
// properties.
type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
}

type properties struct {
	Warnings   []warning         `json:"warnings"`
	TimeSeries []timeSeriesEntry `json:"timeSeries"`
}

type warning struct {
	WarningType  string `json:"warningType"`
	Headline     string `json:"headline"`
	Description  string `json:"description"`
	WarningLevel string `json:"warningLevel"`
	ValidFrom    string `json:"validFrom"`
	ValidTo      string `json:"validTo"`
}

type timeSeriesEntry struct {
	Time                        string  `json:"time"`
	DayProbabilityOfHeavyRain   float64 `json:"dayProbabilityOfHeavyRain"`
	NightProbabilityOfHeavyRain float64 `json:"nightProbabilityOfHeavyRain"`
	DayProbabilityOfHeavySnow   float64 `json:"dayProbabilityOfHeavySnow"`
	NightProbabilityOfHeavySnow float64 `json:"nightProbabilityOfHeavySnow"`
	DayProbabilityOfSferics     float64 `json:"dayProbabilityOfSferics"`
	NightProbabilityOfSferics   float64 `json:"nightProbabilityOfSferics"`
	Midday10MWindSpeed          float64 `json:"midday10MWindSpeed"`
	Midnight10MWindSpeed        float64 `json:"midnight10MWindSpeed"`
	Midday10MWindGust           float64 `json:"midday10MWindGust"`
	Midnight10MWindGust         float64 `json:"midnight10MWindGust"`
}

// FetchAlerts retrieves site-specific data and extracts warnings. Explicit
// warning objects win; when the payload has none, warnings are synthesized
// from the daily probability fields.
func (c *Client) FetchAlerts(ctx context.Context, lat, lon float64) ([]domain.Alert, error) {
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f", c.baseURL, lat, lon)
	headers := map[string]string{
		"apikey": c.apiKey,
		"Accept": "application/json",
	}

	body, err := c.fetcher.Fetch(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("met office fetch: %w", err)
	}

	var resp response
	if err := body.Decode(&resp); err != nil {
		return nil, fmt.Errorf("met office decode: %w", err)
	}

	if alerts := c.parseExplicitWarnings(resp); len(alerts) > 0 {
		return alerts, nil
	}
	return synthesizeFromTimeSeries(resp), nil
}

// parseExplicitWarnings maps structured warning objects directly to the
// canonical shape. No heuristics: absent severity defaults to Yellow and an
// absent type to "Weather Warning" inside NewAlert. Warnings without a
// resolvable start are skipped.
func (c *Client) parseExplicitWarnings(resp response) []domain.Alert {
	var alerts []domain.Alert
	for _, f := range resp.Features {
		for _, w := range f.Properties.Warnings {
			start, ok := parseValidity(w.ValidFrom)
			if !ok {
				c.logger.Warn("warning without resolvable start, skipping",
					"warning_type", w.WarningType, "valid_from", w.ValidFrom)
				continue
			}
			end, ok := parseValidity(w.ValidTo)
			if !ok {
				end = start
			}
			alerts = append(alerts, domain.NewAlert(
				w.WarningType, w.Headline, w.Description,
				domain.ClassifySeverity(w.WarningLevel),
				start, end, domain.SourceMetOffice))
		}
	}
	return alerts
}
