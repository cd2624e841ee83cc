package domain

// conditionNames maps WMO weather interpretation codes to display strings.
// Only codes the forecast provider actually emits are listed.
var conditionNames = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Icy fog",
	51: "Light drizzle",
	53: "Drizzle",
	55: "Dense drizzle",
	56: "Freezing drizzle",
	57: "Heavy freezing drizzle",
	61: "Light rain",
	63: "Rain",
	65: "Heavy rain",
	66: "Freezing rain",
	67: "Heavy freezing rain",
	71: "Light snow",
	73: "Snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Light showers",
	81: "Showers",
	82: "Heavy showers",
	85: "Snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with hail",
	99: "Severe thunderstorm",
}

// ConditionName returns the display string for a WMO weather code, or
// "Unknown" for codes outside the table.
func ConditionName(code int) string {
	if name, ok := conditionNames[code]; ok {
		return name
	}
	return "Unknown"
}
