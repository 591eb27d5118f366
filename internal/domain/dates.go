package domain

import "time"

// BuildDateSequence resolves day-of-month numbers, in scrape order, to
// absolute calendar dates relative to today. The result has the same length
// as dayNumbers and never decreases.
//
// The first number is anchored on today, then tomorrow (late fetches where
// the first column is already the next day), then the same day this month,
// and finally today itself. Each following number either keeps the current
// date, moves forward within the month, or rolls over into the next month
// when it drops below the current day. A rollover onto a day the target
// month does not have clamps to that month's last day.
func BuildDateSequence(dayNumbers []int, today time.Time) []time.Time {
	if len(dayNumbers) == 0 {
		return nil
	}

	today = dateOf(today)
	dates := make([]time.Time, 0, len(dayNumbers))
	dates = append(dates, anchorDate(dayNumbers[0], today))

	for _, day := range dayNumbers[1:] {
		last := dates[len(dates)-1]

		var next time.Time
		switch {
		case day < last.Day():
			next = rollover(last, day)
		case day == last.Day():
			next = last
		default:
			var ok bool
			if next, ok = withDay(last, day); !ok {
				next = last.AddDate(0, 0, day-last.Day())
			}
		}
		dates = append(dates, next)
	}

	return dates
}

func anchorDate(first int, today time.Time) time.Time {
	if first == today.Day() {
		return today
	}
	if tomorrow := today.AddDate(0, 0, 1); first == tomorrow.Day() {
		return tomorrow
	}
	if d, ok := withDay(today, first); ok {
		return d
	}
	return today
}

// rollover moves to day in the month following last, clamped into
// that month.
func rollover(last time.Time, day int) time.Time {
	first := time.Date(last.Year(), last.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	if d, ok := withDay(first, day); ok {
		return d
	}
	day = max(1, min(day, daysIn(first.Year(), first.Month())))
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// withDay replaces the day of month of t, failing when the month has no
// such day.
func withDay(t time.Time, day int) (time.Time, bool) {
	if day < 1 || day > daysIn(t.Year(), t.Month()) {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, time.UTC), true
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Reconstruct places one spot's rows on absolute dates and slot hours.
// Rows must belong to a single spot and be in scrape order.
func Reconstruct(rows []ForecastRow, today time.Time) []DatedForecastRow {
	if len(rows) == 0 {
		return nil
	}

	dayNumbers := make([]int, len(rows))
	for i, row := range rows {
		dayNumbers[i] = row.DayNumber
	}
	dates := BuildDateSequence(dayNumbers, today)

	dated := make([]DatedForecastRow, len(rows))
	for i, row := range rows {
		dated[i] = DatedForecastRow{
			ForecastRow: row,
			Date:        dates[i],
			Hour:        MapTimeToHour(row.TimeOfDay),
		}
	}
	return dated
}
