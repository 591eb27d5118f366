package domain

import "time"

// NormalizeReport describes how a spot's raw columns were reconciled. It is
// informational only; callers log it and carry on.
type NormalizeReport struct {
	Spot    string
	Days    int
	Times   int
	Ratings int
	Rows    int
}

// Empty reports whether the spot produced no usable rows.
func (r NormalizeReport) Empty() bool { return r.Rows == 0 }

// Truncated reports whether the mandatory columns disagreed in length.
func (r NormalizeReport) Truncated() bool {
	return r.Days != r.Times || r.Times != r.Ratings
}

// NormalizeSpot turns one spot's raw columns into forecast rows. The three
// mandatory columns are truncated to the shortest; optional columns are
// padded with empty cells or truncated to match. Day labels that carry no
// usable day of month fall back to today's.
func NormalizeSpot(table RawSpotTable, today time.Time) ([]ForecastRow, NormalizeReport) {
	report := NormalizeReport{
		Spot:    table.Spot,
		Days:    len(table.Days),
		Times:   len(table.Times),
		Ratings: len(table.Ratings),
	}

	n := min(report.Days, report.Times, report.Ratings)
	if n == 0 {
		return nil, report
	}

	days := table.Days[:n]
	times := table.Times[:n]
	ratings := table.Ratings[:n]
	waves := padOrTruncate(table.Waves, n)
	periods := padOrTruncate(table.Periods, n)
	winds := padOrTruncate(table.Winds, n)
	windStates := padOrTruncate(table.WindStates, n)

	rows := make([]ForecastRow, n)
	for i := range n {
		height, waveDir := ParseWave(waves[i])
		speed, windDir := ParseWind(winds[i])
		rows[i] = ForecastRow{
			Spot:       table.Spot,
			DayLabel:   days[i],
			DayNumber:  ExtractDayNumber(days[i], today),
			TimeOfDay:  times[i],
			Rating:     ParseRating(ratings[i]),
			WaveHeight: height,
			WaveDir:    waveDir,
			Period:     ParsePeriod(periods[i]),
			WindSpeed:  speed,
			WindDir:    windDir,
			WindState:  TranslateWindState(windStates[i]),
		}
	}

	report.Rows = n
	return rows, report
}

// padOrTruncate returns exactly n values, appending zero values when short.
func padOrTruncate[T any](values []T, n int) []T {
	if len(values) >= n {
		return values[:n]
	}
	out := make([]T, n)
	copy(out, values)
	return out
}
