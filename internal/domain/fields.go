package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SaturationMarker is the rating symbol the site shows for saturated or
// unavailable columns.
const SaturationMarker = "!"

// DefaultHour is used for time labels outside the known vocabulary.
const DefaultHour = 12

// MaxRating is the highest star count the site shows.
const MaxRating = 5

var (
	// waveRe matches "<decimal><compass>", e.g. "1.5WSW" -> 1.5, WSW.
	waveRe = regexp.MustCompile(`^([\d.]+)\s*([A-Z]*)`)

	// windRe matches "<integer><compass>", e.g. "15ENE" -> 15, ENE.
	windRe = regexp.MustCompile(`^(\d+)\s*([A-Z]*)`)

	windStateLabels = map[string]string{
		"offshore":  "Offshore",
		"onshore":   "Onshore",
		"cross-off": "Cross-off",
		"cross-on":  "Cross-on",
		"glass":     "Glass",
	}

	timeOfDayHours = map[string]int{
		"morning":    9,
		"afternoon":  15,
		"evening":    18,
		"matin":      9,
		"après-midi": 15,
		"apres-midi": 15,
		"soir":       18,
	}
)

// ParseWave splits a wave cell into height in metres and swell direction.
// Unparsable text yields (0, "").
func ParseWave(text string) (float64, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ""
	}

	matches := waveRe.FindStringSubmatch(text)
	if len(matches) != 3 {
		return 0, ""
	}

	height, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, ""
	}
	return height, matches[2]
}

// ParseWind splits a wind cell into speed and direction.
// Unparsable text yields (0, "").
func ParseWind(text string) (int, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ""
	}

	matches := windRe.FindStringSubmatch(text)
	if len(matches) != 3 {
		return 0, ""
	}

	speed, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, ""
	}
	return speed, matches[2]
}

// TranslateWindState maps a wind state to its display label. Unknown states
// are returned unchanged.
func TranslateWindState(state string) string {
	if label, ok := windStateLabels[strings.ToLower(strings.TrimSpace(state))]; ok {
		return label
	}
	return state
}

// MapTimeToHour converts a time-of-day label to the hour used in slot keys.
func MapTimeToHour(timeOfDay string) int {
	if hour, ok := timeOfDayHours[strings.ToLower(strings.TrimSpace(timeOfDay))]; ok {
		return hour
	}
	return DefaultHour
}

// ParseRating converts a rating symbol to a star count: -1 for the
// saturation marker, 0 when unparsable or outside 0..MaxRating.
func ParseRating(symbol string) int {
	symbol = strings.TrimSpace(symbol)
	if symbol == SaturationMarker {
		return -1
	}
	if v, err := strconv.Atoi(symbol); err == nil {
		return starsOrZero(v)
	}
	// Some pages render whole stars as "3.0".
	if v, err := strconv.ParseFloat(symbol, 64); err == nil && v >= 0 && v <= MaxRating {
		return int(v)
	}
	return 0
}

func starsOrZero(v int) int {
	if v < 0 || v > MaxRating {
		return 0
	}
	return v
}

// ParsePeriod parses a swell period in seconds, returning 0 for anything
// that is not a non-negative integer.
func ParsePeriod(text string) int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// ExtractDayNumber pulls the day of month out of a day label such as
// "Sam_18". Bare numbers are accepted too. Anything else, including numbers
// outside 1..31, falls back to the day of month of today.
func ExtractDayNumber(label string, today time.Time) int {
	label = strings.TrimSpace(label)
	if _, after, ok := strings.Cut(label, "_"); ok {
		label, _, _ = strings.Cut(after, "_")
	}

	day, err := strconv.Atoi(label)
	if err != nil || day < 1 || day > 31 {
		return today.Day()
	}
	return day
}
