package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	// StarGlyph is repeated once per rating star.
	StarGlyph = "★"

	// SpotSeparator joins spot names in a presentation cell.
	SpotSeparator = " <br> "

	// DisplayDateLayout is DD/MM/YYYY.
	DisplayDateLayout = "02/01/2006"

	// NoData fills every best-session field when there is nothing to show.
	NoData = "-"
)

// SpotLinker returns the forecast page URL for a spot.
type SpotLinker func(spot string) string

// SpotLink is a spot name with its forecast page.
type SpotLink struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// PresentationRow is one render-ready line of the forecast table.
type PresentationRow struct {
	Key        SlotKey    `json:"slot"`
	Date       string     `json:"date"`
	When       string     `json:"when"`
	Rating     string     `json:"rating"`
	Weather    string     `json:"weather"`
	Spots      []SpotLink `json:"spots"`
	SpotsText  string     `json:"spots_text"`
	BestRating int        `json:"best_rating"`
}

// BestSession summarises the highest rated slot of a run.
type BestSession struct {
	Found  bool       `json:"found"`
	Date   string     `json:"date"`
	When   string     `json:"when"`
	Rating string     `json:"rating"`
	Spots  string     `json:"spots"`
	Links  []SpotLink `json:"links,omitempty"`
}

// PresentationTable projects consolidated slots into table rows, keeping the
// slot order. Spots are hidden for slots rated zero or saturated.
func PresentationTable(slots []ConsolidatedSlot, linker SpotLinker) []PresentationRow {
	rows := make([]PresentationRow, 0, len(slots))
	for _, slot := range slots {
		links := spotLinks(slot, linker)
		rows = append(rows, PresentationRow{
			Key:        slot.Key,
			Date:       FormatDate(slot.Key.Date),
			When:       slot.TimeOfDay,
			Rating:     FormatRating(slot.BestRating),
			Weather:    FormatWeather(slot.WaveHeight, slot.Period),
			Spots:      links,
			SpotsText:  joinSpots(links),
			BestRating: slot.BestRating,
		})
	}
	return rows
}

// FindBestSession picks the slot with the highest rating, the earliest one
// on ties. Slots must be sorted by key.
func FindBestSession(slots []ConsolidatedSlot, linker SpotLinker) BestSession {
	if len(slots) == 0 {
		return BestSession{Date: NoData, When: NoData, Rating: NoData, Spots: NoData}
	}

	best := 0
	for i := 1; i < len(slots); i++ {
		if slots[i].BestRating > slots[best].BestRating {
			best = i
		}
	}

	slot := slots[best]
	links := spotLinks(slot, linker)
	return BestSession{
		Found:  true,
		Date:   FormatDate(slot.Key.Date),
		When:   slot.TimeOfDay,
		Rating: FormatRating(slot.BestRating),
		Spots:  joinSpots(links),
		Links:  links,
	}
}

// FormatRating renders a rating as stars, or "" when it is not positive.
// Ratings above MaxRating render as MaxRating stars.
func FormatRating(rating int) string {
	if rating <= 0 {
		return ""
	}
	return strings.Repeat(StarGlyph, min(rating, MaxRating))
}

// FormatWeather renders "<height>m // <period>s", "<height>m" without a
// period, or "-" without waves.
func FormatWeather(height float64, period int) string {
	if height <= 0 {
		return NoData
	}
	h := strconv.FormatFloat(height, 'f', -1, 64) + "m"
	if period == 0 {
		return h
	}
	return h + " // " + strconv.Itoa(period) + "s"
}

// FormatDate renders a slot date as DD/MM/YYYY.
func FormatDate(date time.Time) string {
	return date.Format(DisplayDateLayout)
}

func spotLinks(slot ConsolidatedSlot, linker SpotLinker) []SpotLink {
	if slot.BestRating <= 0 {
		return nil
	}
	links := make([]SpotLink, len(slot.Spots))
	for i, spot := range slot.Spots {
		links[i] = SpotLink{Name: spot}
		if linker != nil {
			links[i].URL = linker(spot)
		}
	}
	return links
}

func joinSpots(links []SpotLink) string {
	names := make([]string, len(links))
	for i, l := range links {
		names[i] = l.Name
	}
	return strings.Join(names, SpotSeparator)
}
