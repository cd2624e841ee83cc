package domain

import "strings"

// ClassifySeverity maps free-text severity wording to a canonical tier.
// Matching is case-insensitive substring, scanned Red first so that text
// naming several tiers classifies as the highest. Unmatched text is Yellow.
func ClassifySeverity(text string) Severity {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "extreme") || strings.Contains(t, "red"):
		return SeverityRed
	case strings.Contains(t, "severe") || strings.Contains(t, "amber") || strings.Contains(t, "orange"):
		return SeverityAmber
	default:
		return SeverityYellow
	}
}

// categoryKeywords is scanned in order; the first entry whose keyword appears
// in the event text wins. Ordering matters: "thunder" must be checked before
// "rain" so "Thunderstorm with heavy rain" classifies as thunderstorm.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"thunder", "thunderstorm"},
	{"lightning", "thunderstorm"},
	{"wind", "wind"},
	{"gale", "wind"},
	{"rain", "rain"},
	{"flood", "rain"},
	{"snow", "snow"},
	{"ice", "snow"},
	{"frost", "snow"},
	{"fog", "fog"},
	{"heat", "heat"},
	{"hot", "heat"},
	{"cold", "cold"},
	{"freeze", "cold"},
	{"tornado", "tornado"},
	{"hurricane", "hurricane"},
	{"cyclone", "hurricane"},
}

// ClassifyEventCategory maps an event label to a display category tag used by
// the rendering collaborator to pick an icon. Unmatched labels get "warning".
func ClassifyEventCategory(event string) string {
	e := strings.ToLower(event)
	for _, entry := range categoryKeywords {
		if strings.Contains(e, entry.keyword) {
			return entry.category
		}
	}
	return "warning"
}
