package weather

import "time"

// Clock abstracts wall-clock queries so day/night icon selection is testable
// with fixed instants.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type codeInfo struct {
	description string
	iconBase    string
}

// WMO weather interpretation codes as reported by Open-Meteo.
var codeMap = map[int]codeInfo{
	0:  {"Clear", "clear"},
	1:  {"Mostly Clear", "cloudy-1"},
	2:  {"Partly Cloudy", "cloudy-2"},
	3:  {"Overcast", "cloudy-3"},
	45: {"Foggy", "fog"},
	48: {"Foggy", "fog"},
	51: {"Light Drizzle", "rainy-1"},
	53: {"Moderate Drizzle", "rainy-1"},
	55: {"Heavy Drizzle", "rainy-2"},
	61: {"Slight Rain", "rainy-1"},
	63: {"Moderate Rain", "rainy-2"},
	65: {"Heavy Rain", "rainy-3"},
	71: {"Slight Snow", "snowy-1"},
	73: {"Moderate Snow", "snowy-2"},
	75: {"Heavy Snow", "snowy-3"},
	77: {"Snow Grains", "snowy-1"},
	80: {"Slight Showers", "rainy-1"},
	81: {"Moderate Showers", "rainy-2"},
	82: {"Heavy Showers", "rainy-3"},
	85: {"Slight Snow Showers", "snowy-1"},
	86: {"Heavy Snow Showers", "snowy-3"},
	95: {"Thunderstorm", "thunderstorms"},
	96: {"Thunderstorm w/ Hail", "severe-thunderstorm"},
	99: {"Thunderstorm w/ Hail", "severe-thunderstorm"},
}

var dayNightIcons = map[string]bool{
	"clear":                  true,
	"cloudy-1":               true,
	"cloudy-2":               true,
	"cloudy-3":               true,
	"fog":                    true,
	"frost":                  true,
	"haze":                   true,
	"rainy-1":                true,
	"rainy-2":                true,
	"rainy-3":                true,
	"snowy-1":                true,
	"snowy-2":                true,
	"snowy-3":                true,
	"isolated-thunderstorms": true,
	"scattered-thunderstorms": true,
}

// Describe maps a WMO code to a human description.
func Describe(code int) string {
	if info, ok := codeMap[code]; ok {
		return info.description
	}
	return "Unknown"
}

// Icon picks the icon asset name for a code, switching between day and night
// variants based on the clock. Day runs 06:00 to 18:00.
func Icon(code int, clock Clock) string {
	info, ok := codeMap[code]
	if !ok {
		return "cloudy.svg"
	}

	if dayNightIcons[info.iconBase] {
		hour := clock.Now().Hour()
		if hour >= 6 && hour < 18 {
			return info.iconBase + "-day.svg"
		}
		return info.iconBase + "-night.svg"
	}

	return info.iconBase + ".svg"
}

// Glyph renders a code as a terminal symbol for the dashboard.
func Glyph(code int, clock Clock) string {
	info, ok := codeMap[code]
	if !ok {
		return "?"
	}
	switch info.iconBase {
	case "clear":
		hour := clock.Now().Hour()
		if hour >= 6 && hour < 18 {
			return "☀"
		}
		return "☾"
	case "cloudy-1", "cloudy-2":
		return "⛅"
	case "cloudy-3":
		return "☁"
	case "fog":
		return "🌫"
	case "rainy-1", "rainy-2", "rainy-3":
		return "🌧"
	case "snowy-1", "snowy-2", "snowy-3":
		return "❄"
	case "thunderstorms", "severe-thunderstorm":
		return "⛈"
	default:
		return "☁"
	}
}
