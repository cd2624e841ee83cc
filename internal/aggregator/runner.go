package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
)

// Publisher forwards each completed report to an external sink.
type Publisher interface {
	Publish(ctx context.Context, report domain.WeatherReport) error
}

// Runner executes fetch cycles on a fixed interval and holds the latest
// report for the HTTP adapter. A failed cycle keeps the previous report; the
// next tick is the only retry.
type Runner struct {
	agg       *Aggregator
	loc       Location
	interval  time.Duration
	publisher Publisher // optional
	logger    *slog.Logger

	latest atomic.Pointer[domain.WeatherReport]
}

// NewRunner creates a Runner. publisher may be nil.
func NewRunner(agg *Aggregator, loc Location, interval time.Duration, publisher Publisher, logger *slog.Logger) *Runner {
	return &Runner{
		agg:       agg,
		loc:       loc,
		interval:  interval,
		publisher: publisher,
		logger:    logger,
	}
}

// Run executes an immediate cycle and then one per interval until the
// context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("runner started",
		"location", r.loc.Label, "interval", r.interval, "forecast_days", r.loc.ForecastDays)

	r.cycle(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

func (r *Runner) cycle(ctx context.Context) {
	report, err := r.agg.FetchCycle(ctx, r.loc)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("fetch cycle failed", "error", err)
		return
	}

	r.latest.Store(&report)
	r.logger.Info("fetch cycle complete",
		"alerts", len(report.Alerts), "forecast_days", len(report.Forecast))

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, report); err != nil {
			r.logger.Warn("report publish failed", "error", err)
		}
	}
}

// Latest returns the most recent report, or false before the first
// successful cycle.
func (r *Runner) Latest() (domain.WeatherReport, bool) {
	report := r.latest.Load()
	if report == nil {
		return domain.WeatherReport{}, false
	}
	return *report, true
}

// CheckReadiness returns nil once a cycle has completed.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if r.latest.Load() == nil {
		return errors.New("no fetch cycle has completed yet")
	}
	return nil
}
