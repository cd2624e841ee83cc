// Package aggregator orchestrates one fetch cycle: the forecast branch and
// the alert-source fallback chain run concurrently, then the results are
// ranked, deduplicated, and correlated into a single report.
package aggregator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
	"github.com/couchcryptid/weather-alerts-service/internal/observability"
)

// Location carries the caller-supplied inputs for a fetch cycle.
type Location struct {
	Latitude     float64
	Longitude    float64
	Label        string
	Units        string
	ForecastDays int
}

// ForecastProvider fetches current conditions and the daily forecast.
type ForecastProvider interface {
	FetchForecast(ctx context.Context, lat, lon float64, units string, days int) (*domain.CurrentConditions, []domain.ForecastDay, error)
}

// AlertFetcher fetches alerts for a coordinate from one source.
type AlertFetcher interface {
	FetchAlerts(ctx context.Context, lat, lon float64) ([]domain.Alert, error)
}

// AlertSource is one step of the ordered fallback chain.
type AlertSource struct {
	Name    string
	Fetcher AlertFetcher
}

// BuildChain assembles the alert fallback chain for a location. Inside the
// regional provider's coverage area the chain is region feed, then the
// structured endpoint when a credential is configured, then synthesis from
// forecast numerics. Outside coverage only synthesis applies.
func BuildChain(lat, lon float64, hasCredential bool, region, structured, synthesized AlertFetcher) []AlertSource {
	var chain []AlertSource
	if domain.InFeedCoverage(lat, lon) {
		chain = append(chain, AlertSource{Name: "region_feed", Fetcher: region})
		if hasCredential {
			chain = append(chain, AlertSource{Name: "met_office", Fetcher: structured})
		}
	}
	chain = append(chain, AlertSource{Name: "forecast_synthesis", Fetcher: synthesized})
	return chain
}

// Aggregator runs fetch cycles against a fixed provider set.
type Aggregator struct {
	forecast ForecastProvider
	chain    []AlertSource
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates an Aggregator.
func New(forecast ForecastProvider, chain []AlertSource, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		forecast: forecast,
		chain:    chain,
		logger:   logger,
		metrics:  metrics,
	}
}

// FetchCycle assembles one report. The forecast branch and the alert branch
// run concurrently; a forecast failure fails the cycle, alert-source
// failures are absorbed by the fallback chain.
func (a *Aggregator) FetchCycle(ctx context.Context, loc Location) (domain.WeatherReport, error) {
	start := time.Now()

	var (
		current  *domain.CurrentConditions
		forecast []domain.ForecastDay
		alerts   []domain.Alert
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, forecast, err = a.forecast.FetchForecast(gctx, loc.Latitude, loc.Longitude, loc.Units, loc.ForecastDays)
		if err != nil {
			a.metrics.ProviderRequests.WithLabelValues("forecast", "error").Inc()
			return err
		}
		a.metrics.ProviderRequests.WithLabelValues("forecast", "success").Inc()
		return nil
	})
	g.Go(func() error {
		alerts = a.fetchAlerts(gctx, loc)
		return nil
	})

	if err := g.Wait(); err != nil {
		a.metrics.CyclesTotal.WithLabelValues("error").Inc()
		return domain.WeatherReport{}, err
	}

	alerts = domain.Deduplicate(domain.Rank(alerts))
	forecast = domain.Correlate(alerts, forecast)

	a.metrics.CyclesTotal.WithLabelValues("success").Inc()
	a.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	a.observeAlerts(alerts)

	return domain.WeatherReport{
		Location:  loc.Label,
		FetchedAt: domain.Now(),
		Current:   current,
		Alerts:    alerts,
		Forecast:  forecast,
	}, nil
}

// fetchAlerts walks the fallback chain strictly in order, short-circuiting
// on the first non-error result. An empty result is a valid "no warnings"
// signal and stops the chain. Exhaustion yields an empty list, never an
// error — alert failures must not fail the cycle.
func (a *Aggregator) fetchAlerts(ctx context.Context, loc Location) []domain.Alert {
	for _, src := range a.chain {
		alerts, err := src.Fetcher.FetchAlerts(ctx, loc.Latitude, loc.Longitude)
		if err != nil {
			a.metrics.ProviderRequests.WithLabelValues(src.Name, "error").Inc()
			a.logger.Warn("alert source failed, trying next", "source", src.Name, "error", err)
			continue
		}
		a.metrics.ProviderRequests.WithLabelValues(src.Name, "success").Inc()
		a.metrics.SourceSelected.WithLabelValues(src.Name).Inc()
		a.logger.Debug("alert source selected", "source", src.Name, "alerts", len(alerts))
		return alerts
	}
	a.logger.Warn("all alert sources exhausted, reporting no alerts")
	return []domain.Alert{}
}

// observeAlerts publishes the severity breakdown of the latest report.
func (a *Aggregator) observeAlerts(alerts []domain.Alert) {
	counts := map[domain.Severity]int{
		domain.SeverityYellow: 0,
		domain.SeverityAmber:  0,
		domain.SeverityRed:    0,
	}
	for _, alert := range alerts {
		counts[alert.Severity]++
	}
	for severity, n := range counts {
		a.metrics.ActiveAlerts.WithLabelValues(string(severity)).Set(float64(n))
	}
}
