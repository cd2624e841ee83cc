package openmeteo

import (
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
)

// normalizeForecast converts the provider's parallel daily arrays into one
// ForecastDay per index. The date array is structurally required; the
// precipitation array may be absent, defaulting every day to 0.
func normalizeForecast(daily *dailyBlock) ([]domain.ForecastDay, error) {
	if daily == nil || len(daily.Time) == 0 {
		return nil, fmt.Errorf("%w: daily time array missing", domain.ErrMalformedPayload)
	}

	forecast := make([]domain.ForecastDay, 0, len(daily.Time))
	for i, dateStr := range daily.Time {
		date, err := parseLocalDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: daily time %q", domain.ErrMalformedPayload, dateStr)
		}
		code := intAt(daily.WeatherCode, i)
		forecast = append(forecast, domain.ForecastDay{
			Date:                date,
			ConditionCode:       code,
			Condition:           domain.ConditionName(code),
			TempMax:             floatAt(daily.TempMax, i),
			TempMin:             floatAt(daily.TempMin, i),
			PrecipitationChance: intAt(daily.PrecipProbMax, i),
		})
	}
	return forecast, nil
}

// parseCurrent maps the current block to a display snapshot. Sunrise and
// sunset come from today's daily entry. Returns nil when the provider omits
// the current block.
func parseCurrent(current *currentBlock, daily *dailyBlock) *domain.CurrentConditions {
	if current == nil {
		return nil
	}
	cc := &domain.CurrentConditions{
		Temperature:   current.Temperature,
		FeelsLike:     current.FeelsLike,
		Humidity:      current.Humidity,
		WeatherCode:   current.WeatherCode,
		Condition:     domain.ConditionName(current.WeatherCode),
		WindSpeed:     current.WindSpeed,
		WindDirection: current.WindDirection,
		IsDay:         current.IsDay == 1,
	}
	if daily != nil {
		if len(daily.Sunrise) > 0 {
			cc.Sunrise = daily.Sunrise[0]
		}
		if len(daily.Sunset) > 0 {
			cc.Sunset = daily.Sunset[0]
		}
	}
	return cc
}

// synthesizeAlerts derives warnings from daily weather codes and wind speeds.
// Thresholds on this path are in km/h: sustained >70 or gusts >90 warrant a
// wind warning, Amber above 90/120. Each warning spans its full local
// calendar day; at most one alert per category per day.
func synthesizeAlerts(daily *dailyBlock) []domain.Alert {
	alerts := []domain.Alert{}
	if daily == nil {
		return alerts
	}

	for i, dateStr := range daily.Time {
		date, err := parseLocalDate(dateStr)
		if err != nil {
			continue
		}
		start, end := daySpan(date)
		code := intAt(daily.WeatherCode, i)
		wind := floatAt(daily.WindSpeedMax, i)
		gusts := floatAt(daily.WindGustsMax, i)

		// Thunderstorm codes 95-99; 96+ adds hail.
		if code >= 95 {
			severity := domain.SeverityYellow
			desc := "Thunderstorms expected with possible lightning and heavy rain."
			if code >= 96 {
				severity = domain.SeverityAmber
				desc += " Hail is also possible."
			}
			alerts = append(alerts, domain.NewAlert("Thunderstorm Warning", "", desc,
				severity, start, end, domain.SourceForecastModel))
		}

		// Heavy snow (75) and heavy snow showers (86).
		if code == 75 || code == 86 {
			alerts = append(alerts, domain.NewAlert("Snow Warning", "",
				"Heavy snow expected. Travel disruption likely. Take care on roads and paths.",
				domain.SeverityAmber, start, end, domain.SourceForecastModel))
		}

		// Heavy rain (65) and heavy showers (82).
		if code == 65 || code == 82 {
			alerts = append(alerts, domain.NewAlert("Heavy Rain Warning", "",
				"Heavy rainfall expected. Surface water flooding possible in places.",
				domain.SeverityYellow, start, end, domain.SourceForecastModel))
		}

		if wind > 70 || gusts > 90 {
			severity := domain.SeverityYellow
			if wind > 90 || gusts > 120 {
				severity = domain.SeverityAmber
			}
			desc := fmt.Sprintf("Strong winds expected. Sustained: %.0f km/h, Gusts: %.0f km/h. "+
				"Secure loose objects and take care when driving.",
				math.Round(wind), math.Round(gusts))
			alerts = append(alerts, domain.NewAlert("Wind Warning", "", desc,
				severity, start, end, domain.SourceForecastModel))
		}

		// Dense freezing fog.
		if code == 48 {
			alerts = append(alerts, domain.NewAlert("Fog Warning", "",
				"Dense fog expected with reduced visibility. Allow extra time for travel.",
				domain.SeverityYellow, start, end, domain.SourceForecastModel))
		}
	}
	return alerts
}

// parseLocalDate reads a provider date ("2006-01-02") in the local timezone,
// matching the date-only correlation rule.
func parseLocalDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// daySpan returns the full-calendar-day validity window for a synthesized
// warning.
func daySpan(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())
	return start, end
}

// intAt and floatAt guard ragged parallel arrays; a short or missing array
// reads as zero.
func intAt(arr []int, i int) int {
	if i < len(arr) {
		return arr[i]
	}
	return 0
}

func floatAt(arr []float64, i int) float64 {
	if i < len(arr) {
		return arr[i]
	}
	return 0
}
