package domain

import (
	"fmt"
	"time"
)

// Region is a named group of spots aggregated into one timeline.
type Region struct {
	Slug  string   `json:"slug" yaml:"slug"`
	Name  string   `json:"name" yaml:"name"`
	Spots []string `json:"spots" yaml:"spots"`
}

// RawSpotTable holds the text columns extracted from one spot's forecast page.
// Days, Times and Ratings are mandatory; the other columns may be missing or
// shorter and are padded during normalization.
type RawSpotTable struct {
	Spot       string   `json:"spot"`
	Days       []string `json:"days"` // "Sam_18", repeated once per column of the day
	Times      []string `json:"times"`
	Ratings    []string `json:"ratings"`
	Waves      []string `json:"waves,omitempty"`
	Periods    []string `json:"periods,omitempty"`
	Winds      []string `json:"winds,omitempty"`
	WindStates []string `json:"wind_states,omitempty"`
}

// ForecastRow is one normalized forecast column for one spot.
type ForecastRow struct {
	Spot       string  `json:"spot"`
	DayLabel   string  `json:"day_label"`
	DayNumber  int     `json:"day_number"`
	TimeOfDay  string  `json:"time_of_day"`
	Rating     int     `json:"rating"` // -1 saturated, 0 none, 1..5 stars
	WaveHeight float64 `json:"wave_height"`
	WaveDir    string  `json:"wave_dir,omitempty"`
	Period     int     `json:"period"`
	WindSpeed  int     `json:"wind_speed"`
	WindDir    string  `json:"wind_dir,omitempty"`
	WindState  string  `json:"wind_state,omitempty"`
}

// SlotKey identifies a forecast slot by absolute date and hour so rows from
// different spots line up regardless of when each page was fetched.
type SlotKey struct {
	Date time.Time `json:"date"` // midnight UTC
	Hour int       `json:"hour"`
}

// NewSlotKey builds a key from any instant on the slot's calendar date.
func NewSlotKey(date time.Time, hour int) SlotKey {
	return SlotKey{Date: dateOf(date), Hour: hour}
}

// Time returns the slot's start as a UTC instant.
func (k SlotKey) Time() time.Time {
	return k.Date.Add(time.Duration(k.Hour) * time.Hour)
}

// Before reports whether k sorts ahead of other.
func (k SlotKey) Before(other SlotKey) bool {
	if !k.Date.Equal(other.Date) {
		return k.Date.Before(other.Date)
	}
	return k.Hour < other.Hour
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s %02d:00", k.Date.Format(time.DateOnly), k.Hour)
}

// DatedForecastRow is a ForecastRow placed on an absolute date.
type DatedForecastRow struct {
	ForecastRow
	Date time.Time `json:"date"`
	Hour int       `json:"hour"`
}

// Key returns the row's slot key.
func (r DatedForecastRow) Key() SlotKey {
	return SlotKey{Date: r.Date, Hour: r.Hour}
}

// ConsolidatedSlot is the winning outcome of one slot across all spots.
type ConsolidatedSlot struct {
	Key        SlotKey  `json:"slot"`
	TimeOfDay  string   `json:"time_of_day"`
	BestRating int      `json:"best_rating"`
	Spots      []string `json:"spots"`

	// Max-reduced across the kept spots.
	WaveHeight float64 `json:"wave_height"`
	Period     int     `json:"period"`

	// Taken from the first kept row.
	WaveDir   string `json:"wave_dir,omitempty"`
	WindSpeed int    `json:"wind_speed"`
	WindDir   string `json:"wind_dir,omitempty"`
	WindState string `json:"wind_state,omitempty"`
}

// Report is everything a renderer needs for one region run.
type Report struct {
	Region        Region             `json:"region"`
	GeneratedAt   time.Time          `json:"generated_at"`
	Slots         []ConsolidatedSlot `json:"slots"`
	Table         []PresentationRow  `json:"table"`
	Best          BestSession        `json:"best_session"`
	SpotsWithData int                `json:"spots_with_data"`
}

// NewReport derives the presentation projections for a consolidated run.
func NewReport(region Region, generatedAt time.Time, slots []ConsolidatedSlot, spotsWithData int, linker SpotLinker) Report {
	return Report{
		Region:        region,
		GeneratedAt:   generatedAt,
		Slots:         slots,
		Table:         PresentationTable(slots, linker),
		Best:          FindBestSession(slots, linker),
		SpotsWithData: spotsWithData,
	}
}
