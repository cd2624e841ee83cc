// Package regionfeed parses the regional severe-weather warnings feed: a
// semi-structured text document of title/description items. Titles carry the
// severity and event ("Yellow warning of snow, ice affecting South West
// England"); descriptions carry a validity window with no year. Parsing is
// heuristic by design — single malformed items are skipped, never fatal.
package regionfeed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
	"github.com/couchcryptid/weather-alerts-service/internal/fetch"
)

const defaultBaseURL = "https://www.metoffice.gov.uk/public/data/PWSCache/WarningsRSS/Region"

// Client fetches and parses the regional warnings feed for a coordinate's
// region code.
type Client struct {
	fetcher fetch.Fetcher
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a region feed client on top of a shared fetcher.
func NewClient(fetcher fetch.Fetcher, logger *slog.Logger) *Client {
	return &Client{
		fetcher: fetcher,
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// FetchAlerts resolves the coordinates to a region code, fetches that
// region's feed, and parses it. An empty feed is a valid "no warnings"
// result, not an error.
func (c *Client) FetchAlerts(ctx context.Context, lat, lon float64) ([]domain.Alert, error) {
	code := domain.RegionCode(lat, lon)
	url := fmt.Sprintf("%s/%s", c.baseURL, code)

	body, err := c.fetcher.Fetch(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("region feed fetch (%s): %w", code, err)
	}

	alerts, skipped, err := ParseFeed(body.Text())
	if err != nil {
		return nil, fmt.Errorf("region feed (%s): %w", code, err)
	}
	if skipped > 0 {
		c.logger.Warn("skipped unparsable feed items", "region", code, "skipped", skipped)
	}
	c.logger.Debug("region feed parsed", "region", code, "alerts", len(alerts))
	return alerts, nil
}
