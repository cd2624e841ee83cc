package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
)

// requestTimeout bounds each individual network call. A slow provider fails
// only that call; fallback handling belongs to the caller.
const requestTimeout = 10 * time.Second

// Body is a fetched response, classified as JSON or raw text by content type.
type Body struct {
	Raw         []byte
	ContentType string
	IsJSON      bool
}

// Text returns the body as a string.
func (b Body) Text() string {
	return string(b.Raw)
}

// Decode unmarshals a JSON body into v.
func (b Body) Decode(v any) error {
	if !b.IsJSON {
		return fmt.Errorf("%w: body is not JSON (%s)", domain.ErrMalformedPayload, b.ContentType)
	}
	if err := json.Unmarshal(b.Raw, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	return nil
}

// Fetcher issues a single GET and returns the classified body.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (Body, error)
}

// Client is a rate-limited HTTP fetcher shared by all provider clients.
// It never retries; the next scheduled cycle is the only retry.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a Client. The limiter spaces outbound calls because the
// upstream providers are rate limited; pass nil to disable limiting.
func NewClient(limiter *rate.Limiter, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    limiter,
		logger:     logger,
	}
}

// Fetch GETs url with optional headers and classifies the response.
// Connection failures wrap domain.ErrNetwork, deadline expiry wraps
// domain.ErrTimeout.
func (c *Client) Fetch(ctx context.Context, url string, headers map[string]string) (Body, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Body{}, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Body{}, fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return Body{}, fmt.Errorf("%w: %s", domain.ErrTimeout, url)
		}
		return Body{}, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return Body{}, fmt.Errorf("%w: %s", domain.ErrTimeout, url)
		}
		return Body{}, fmt.Errorf("%w: read body: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Body{}, fmt.Errorf("%w: status %d from %s", domain.ErrNetwork, resp.StatusCode, url)
	}

	return classify(raw, resp.Header.Get("Content-Type")), nil
}

// classify decides whether a body is JSON or raw text. Feed-style content
// types (xml, rss) are always text; everything else is JSON if it parses,
// text otherwise.
func classify(raw []byte, contentType string) Body {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "xml") || strings.Contains(ct, "rss") {
		return Body{Raw: raw, ContentType: contentType}
	}
	return Body{Raw: raw, ContentType: contentType, IsJSON: json.Valid(raw)}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
