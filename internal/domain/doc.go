// Package domain models surf forecast data scraped from surf-forecast.com and
// the aggregation rules that turn it into one ranked timeline per region.
//
// # Data Source
//
// Each spot has a "six day" forecast page at
// https://fr.surf-forecast.com/breaks/<spot>/forecasts/latest/six_day. The page
// carries one HTML table whose rows are tagged with a data-row-name attribute
// (days, time, wave-height, periods, wind, wind-state) and one star-rating div
// per forecast column. Extraction into parallel text columns happens in the
// surfforecast adapter; everything in this package works on those columns.
//
// # Source Conventions
//
// Day labels:
//
//	"<weekday>_<day-of-month>"  →  e.g. "Sam_18"
//	One label cell spans every column of that day (colspan), so the extractor
//	repeats the label once per column. Month and year are never given.
//
// Time labels:
//
//	The French site uses "matin", "après-midi", "soir"; the English site uses
//	"morning", "afternoon", "evening". Both map to the hours 9, 15 and 18.
//	Unknown labels map to noon (see [MapTimeToHour]).
//
// Ratings:
//
//	An integer star count 0–5, or "!" when the site flags the column as
//	saturated/unavailable. "!" maps to −1, anything unparsable to 0.
//
// Waves and wind:
//
//	"<height><compass>"  →  e.g. "1.5WSW" (metres)
//	"<speed><compass>"   →  e.g. "15ENE"  (km/h)
//	Wind state is a small vocabulary (offshore, onshore, cross-off, cross-on,
//	glass) rendered with a capitalised display label.
//
// # Date Reconstruction
//
// Because labels only carry the day of month, absolute dates are rebuilt per
// spot by [BuildDateSequence] from an explicit reference "today". Each spot is
// reconstructed from its own label sequence; spots fetched at different
// instants are reconciled afterwards by their absolute [SlotKey], never by
// assuming synchronized fetch times.
//
// # Consolidation
//
// [Aggregate] groups all spots' rows by slot key and keeps only the rows that
// reach the best rating of their slot. Ties keep every spot in scrape order.
// Wave height and period are reduced by maximum; wind speed, directions and
// wind state come from the first kept row. Those representative fields are a
// first-seen choice, not a consensus.
package domain
