package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Severity is the canonical warning tier. Provider severity text is always
// normalized to one of the three values below before an Alert leaves a parser.
type Severity string

const (
	SeverityYellow Severity = "Yellow"
	SeverityAmber  Severity = "Amber"
	SeverityRed    Severity = "Red"
)

// weight returns the ranking order of a severity: Red > Amber > Yellow.
// Unknown values rank below Yellow and should not occur post-normalization.
func (s Severity) weight() int {
	switch s {
	case SeverityRed:
		return 3
	case SeverityAmber:
		return 2
	case SeverityYellow:
		return 1
	default:
		return 0
	}
}

// Alert source provenance tags. Kept stable because they feed the dedup ID
// and appear in logs and metrics.
const (
	SourceMetOffice     = "Met Office"          // explicit structured warnings
	SourceMetAnalysis   = "Met Office Analysis" // synthesized from probability fields
	SourceRegionFeed    = "Met Office Feed"     // parsed from the regional warnings feed
	SourceForecastModel = "Weather Analysis"    // synthesized from generic forecast numerics
)

// Alert is the canonical severe-weather warning record.
// Start is required; parsers discard items without a resolvable start.
type Alert struct {
	ID          string    `json:"id"`
	Event       string    `json:"event"`
	Headline    string    `json:"headline,omitempty"`
	Description string    `json:"description,omitempty"`
	Severity    Severity  `json:"severity"`
	Category    string    `json:"category"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Source      string    `json:"source"`
}

// NewAlert builds an Alert with normalized severity, a derived display
// category, and a deterministic ID. An end before the start (or zero) is
// clamped to the start, matching feeds that omit the validity end.
func NewAlert(event, headline, description string, severity Severity, start, end time.Time, source string) Alert {
	if event == "" {
		event = "Weather Warning"
	}
	if severity.weight() == 0 {
		severity = SeverityYellow
	}
	if end.Before(start) {
		end = start
	}
	return Alert{
		ID:          alertID(source, event, start),
		Event:       event,
		Headline:    headline,
		Description: description,
		Severity:    severity,
		Category:    ClassifyEventCategory(event),
		Start:       start,
		End:         end,
		Source:      source,
	}
}

// alertID produces a deterministic ID from the alert's key fields so that
// reprocessing the same feed yields the same IDs across cycles.
func alertID(source, event string, start time.Time) string {
	input := fmt.Sprintf("%s|%s|%s", source, event, start.Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	return "alert-" + hex.EncodeToString(hash[:8])
}

// ForecastDay is one calendar day's outlook. HasWarning is computed by
// Correlate, never supplied by a provider.
type ForecastDay struct {
	Date                time.Time `json:"date"`
	ConditionCode       int       `json:"conditionCode"`
	Condition           string    `json:"condition"`
	TempMax             float64   `json:"tempMax"`
	TempMin             float64   `json:"tempMin"`
	PrecipitationChance int       `json:"precipitationChance"`
	HasWarning          bool      `json:"hasWarning"`
}

// CurrentConditions is a display-only snapshot; no alert logic depends on it.
type CurrentConditions struct {
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feelsLike"`
	Humidity      int     `json:"humidity"`
	WeatherCode   int     `json:"weatherCode"`
	Condition     string  `json:"condition"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection int     `json:"windDirection"`
	IsDay         bool    `json:"isDay"`
	Sunrise       string  `json:"sunrise,omitempty"`
	Sunset        string  `json:"sunset,omitempty"`
}

// WeatherReport is the assembled output of one fetch cycle.
type WeatherReport struct {
	Location  string             `json:"location"`
	FetchedAt time.Time          `json:"fetchedAt"`
	Current   *CurrentConditions `json:"current"`
	Alerts    []Alert            `json:"alerts"`
	Forecast  []ForecastDay      `json:"forecast"`
}
