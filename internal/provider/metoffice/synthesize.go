package metoffice

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
)

// Probability and wind thresholds for synthesized warnings. Wind values on
// this path are in m/s as exposed by the provider; 20 m/s ≈ 72 km/h.
const (
	probWarn  = 50 // percent; above this a warning is raised
	probAmber = 70 // percent; above this the warning is Amber

	windWarnMS  = 20
	gustWarnMS  = 25
	windAmberMS = 25
	gustAmberMS = 30
	msToKmh     = 3.6
)

// synthesizeFromTimeSeries derives warnings from the daily probability and
// wind fields, one pass per day record. Produces at most one alert per
// category per day; each spans the full local calendar day.
func synthesizeFromTimeSeries(resp response) []domain.Alert {
	alerts := []domain.Alert{}
	for _, f := range resp.Features {
		for _, day := range f.Properties.TimeSeries {
			date, ok := parseEntryDate(day.Time)
			if !ok {
				continue
			}
			start, end := daySpan(date)

			if prob := max(day.DayProbabilityOfHeavyRain, day.NightProbabilityOfHeavyRain); prob > probWarn {
				desc := fmt.Sprintf("Heavy rainfall expected (%.0f%% probability). Surface water flooding possible in places.", prob)
				alerts = append(alerts, domain.NewAlert("Heavy Rain Warning", "", desc,
					probSeverity(prob), start, end, domain.SourceMetAnalysis))
			}

			if prob := max(day.DayProbabilityOfHeavySnow, day.NightProbabilityOfHeavySnow); prob > probWarn {
				desc := fmt.Sprintf("Heavy snow expected (%.0f%% probability). Travel disruption likely. Take care on roads and paths.", prob)
				alerts = append(alerts, domain.NewAlert("Snow Warning", "", desc,
					probSeverity(prob), start, end, domain.SourceMetAnalysis))
			}

			if prob := max(day.DayProbabilityOfSferics, day.NightProbabilityOfSferics); prob > probWarn {
				desc := fmt.Sprintf("Thunderstorms expected (%.0f%% probability) with possible lightning and heavy rain.", prob)
				alerts = append(alerts, domain.NewAlert("Thunderstorm Warning", "", desc,
					probSeverity(prob), start, end, domain.SourceMetAnalysis))
			}

			wind := max(day.Midday10MWindSpeed, day.Midnight10MWindSpeed)
			gust := max(day.Midday10MWindGust, day.Midnight10MWindGust)
			if wind > windWarnMS || gust > gustWarnMS {
				severity := domain.SeverityYellow
				if wind > windAmberMS || gust > gustAmberMS {
					severity = domain.SeverityAmber
				}
				desc := fmt.Sprintf("Strong winds expected. Sustained: %.0f km/h, Gusts: %.0f km/h. "+
					"Secure loose objects and take care when driving.",
					wind*msToKmh, gust*msToKmh)
				alerts = append(alerts, domain.NewAlert("Wind Warning", "", desc,
					severity, start, end, domain.SourceMetAnalysis))
			}
		}
	}
	return alerts
}

func probSeverity(prob float64) domain.Severity {
	if prob > probAmber {
		return domain.SeverityAmber
	}
	return domain.SeverityYellow
}

// parseEntryDate extracts the calendar date from a time-series timestamp
// ("2026-01-02T00:00Z" and similar); only the date part matters.
func parseEntryDate(s string) (time.Time, bool) {
	datePart, _, _ := strings.Cut(s, "T")
	t, err := time.ParseInLocation("2006-01-02", datePart, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func daySpan(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())
	return start, end
}

// parseValidity reads an explicit warning timestamp, accepting RFC 3339 and
// the provider's zone-less variant.
func parseValidity(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
