package domain

import "sort"

// Aggregate consolidates every spot's dated rows into one slot per key,
// sorted ascending by key. Within a slot only the rows reaching the best
// rating are kept; spot order follows the order of spots and then rows in
// the input. An input without rows yields nil.
func Aggregate(spots [][]DatedForecastRow) []ConsolidatedSlot {
	groups := make(map[SlotKey][]DatedForecastRow)
	var keys []SlotKey

	for _, rows := range spots {
		for _, row := range rows {
			key := NewSlotKey(row.Date, row.Hour)
			if _, seen := groups[key]; !seen {
				keys = append(keys, key)
			}
			groups[key] = append(groups[key], row)
		}
	}

	if len(keys) == 0 {
		return nil
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	slots := make([]ConsolidatedSlot, 0, len(keys))
	for _, key := range keys {
		slots = append(slots, consolidate(key, groups[key]))
	}
	return slots
}

// consolidate reduces one slot's rows (non-empty, in concatenation order).
func consolidate(key SlotKey, rows []DatedForecastRow) ConsolidatedSlot {
	best := rows[0].Rating
	for _, row := range rows[1:] {
		best = max(best, row.Rating)
	}

	var (
		slot ConsolidatedSlot
		seen = make(map[string]bool)
		kept int
	)
	for _, row := range rows {
		if row.Rating != best {
			continue
		}
		if kept == 0 {
			slot = ConsolidatedSlot{
				Key:        key,
				TimeOfDay:  row.TimeOfDay,
				BestRating: best,
				WaveHeight: row.WaveHeight,
				Period:     row.Period,
				WaveDir:    row.WaveDir,
				WindSpeed:  row.WindSpeed,
				WindDir:    row.WindDir,
				WindState:  row.WindState,
			}
		}
		kept++

		slot.WaveHeight = max(slot.WaveHeight, row.WaveHeight)
		slot.Period = max(slot.Period, row.Period)
		if !seen[row.Spot] {
			seen[row.Spot] = true
			slot.Spots = append(slot.Spots, row.Spot)
		}
	}
	return slot
}
